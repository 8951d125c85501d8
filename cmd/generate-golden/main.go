// Command generate-golden writes the reference products used by the multiply
// package tests. Products are computed exactly with big.Rat and rounded once,
// so the file does not depend on any strategy under test.
//
// Usage:
//
//	go run ./cmd/generate-golden -out internal/multiply/testdata/golden.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/agbru/matbench/internal/logging"
	"github.com/agbru/matbench/internal/matrix"
)

type goldenCase struct {
	Name    string      `json:"name"`
	Size    int         `json:"size"`
	A       [][]float64 `json:"a"`
	B       [][]float64 `json:"b"`
	Product [][]float64 `json:"product"`
}

type goldenFile struct {
	Cases []goldenCase `json:"cases"`
}

var defaultSizes = []int{1, 2, 3, 5, 8}

func main() {
	out := flag.String("out", filepath.Join("internal", "multiply", "testdata", "golden.json"), "Output path.")
	seed := flag.Uint64("seed", 2024, "Seed for the quantized operands.")
	flag.Parse()

	logger := logging.NewConsoleZerolog(os.Stderr, "generate-golden", false)

	file, err := generate(*seed, defaultSizes)
	if err != nil {
		logger.Fatal().Err(err).Msg("generate")
	}
	if err := write(*out, file); err != nil {
		logger.Fatal().Err(err).Str("path", *out).Msg("write")
	}
	logger.Info().Str("path", *out).Int("cases", len(file.Cases)).Msg("golden file written")
}

func generate(seed uint64, sizes []int) (goldenFile, error) {
	rng := matrix.NewRand(seed)
	var file goldenFile
	for _, n := range sizes {
		a, err := matrix.Random(n, rng, true)
		if err != nil {
			return goldenFile{}, err
		}
		b, err := matrix.Random(n, rng, true)
		if err != nil {
			return goldenFile{}, err
		}
		ar, br := a.Rows(), b.Rows()
		file.Cases = append(file.Cases, goldenCase{
			Name:    fmt.Sprintf("random %dx%d", n, n),
			Size:    n,
			A:       ar,
			B:       br,
			Product: exactProduct(ar, br),
		})
	}
	return file, nil
}

// exactProduct multiplies square matrices in rational arithmetic and rounds
// each element to the nearest float64.
func exactProduct(a, b [][]float64) [][]float64 {
	n := len(a)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range n {
			sum := new(big.Rat)
			for k := range n {
				term := new(big.Rat).SetFloat64(a[i][k])
				term.Mul(term, new(big.Rat).SetFloat64(b[k][j]))
				sum.Add(sum, term)
			}
			out[i][j], _ = sum.Float64()
		}
	}
	return out
}

func write(path string, file goldenFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
