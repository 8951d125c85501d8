package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// TestExactProduct tests the oracle against hand-computed products.
func TestExactProduct(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [][]float64
		expected [][]float64
	}{
		{"1x1", [][]float64{{3}}, [][]float64{{4}}, [][]float64{{12}}},
		{"2x2", [][]float64{{1, 2}, {3, 4}}, [][]float64{{5, 6}, {7, 8}}, [][]float64{{19, 22}, {43, 50}}},
		{"identity", [][]float64{{1, 0}, {0, 1}}, [][]float64{{0.25, 0.5}, {0.75, 1}}, [][]float64{{0.25, 0.5}, {0.75, 1}}},
		{"empty", [][]float64{}, [][]float64{}, [][]float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exactProduct(tt.a, tt.b)
			if len(got) != len(tt.expected) {
				t.Fatalf("exactProduct has %d rows, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				for j := range got[i] {
					if got[i][j] != tt.expected[i][j] {
						t.Errorf("exactProduct[%d][%d] = %v, want %v", i, j, got[i][j], tt.expected[i][j])
					}
				}
			}
		})
	}
}

// TestExactProduct_RoundsOnce checks that rounding happens after the sum.
func TestExactProduct_RoundsOnce(t *testing.T) {
	a := [][]float64{{0.1, 0.2}, {0, 0}}
	b := [][]float64{{1, 0}, {1, 0}}
	got := exactProduct(a, b)[0][0]
	want := 0.30000000000000004 // the exact sum is a tie; it rounds to even
	if math.Abs(got-want) > 1e-16 {
		t.Errorf("exactProduct = %v, want %v", got, want)
	}
}

func TestGenerate(t *testing.T) {
	file, err := generate(7, []int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(file.Cases))
	}
	for _, c := range file.Cases {
		if len(c.A) != c.Size || len(c.B) != c.Size || len(c.Product) != c.Size {
			t.Errorf("%s: dimensions do not match size %d", c.Name, c.Size)
		}
		for _, row := range c.A {
			for _, v := range row {
				if scaled := v * 1000; math.Abs(scaled-math.Round(scaled)) > 1e-9 {
					t.Errorf("%s: operand %v is not quantized", c.Name, v)
				}
			}
		}
	}

	again, err := generate(7, []int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if again.Cases[1].Product[2][2] != file.Cases[1].Product[2][2] {
		t.Error("generate must be deterministic for a fixed seed")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "golden.json")
	file, err := generate(1, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if err := write(path, file); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back goldenFile
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if len(back.Cases) != 1 || back.Cases[0].Product[1][1] != file.Cases[0].Product[1][1] {
		t.Errorf("round trip lost data: %+v", back)
	}
}
