package memory

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agbru/matbench/internal/format"
)

// MemoryEstimate breaks down the bytes a run is expected to hold at peak.
type MemoryEstimate struct {
	Size        int
	InputBytes  uint64
	ResultBytes uint64
	WorkerBytes uint64
	TotalBytes  uint64
}

// EstimateMemoryUsage estimates the peak footprint of multiplying two
// size×size matrices with the given number of strategies. Every strategy
// keeps its product for the consistency check, and the parallel workers'
// accumulators together hold one more matrix.
func EstimateMemoryUsage(size, strategies int) MemoryEstimate {
	if strategies < 1 {
		strategies = 1
	}
	matrixBytes := saturatingMul(saturatingMul(uint64(max(size, 0)), uint64(max(size, 0))), 8)
	est := MemoryEstimate{
		Size:        size,
		InputBytes:  saturatingMul(matrixBytes, 2),
		ResultBytes: saturatingMul(matrixBytes, uint64(strategies)),
		WorkerBytes: matrixBytes,
	}
	est.TotalBytes = saturatingAdd(saturatingAdd(est.InputBytes, est.ResultBytes), est.WorkerBytes)
	return est
}

// FormatMemoryEstimate renders the estimate for display.
func FormatMemoryEstimate(est MemoryEstimate) string {
	return fmt.Sprintf("%s (inputs %s, results %s, workers %s)",
		format.FormatBytes(est.TotalBytes),
		format.FormatBytes(est.InputBytes),
		format.FormatBytes(est.ResultBytes),
		format.FormatBytes(est.WorkerBytes))
}

// ParseMemoryLimit parses a byte count with an optional K, M, G or T suffix
// (powers of 1024, an optional trailing "B" or "iB" is accepted). An empty
// string means no limit.
func ParseMemoryLimit(s string) (uint64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return math.MaxUint64, nil
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "B"), "I")

	multiplier := uint64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1 << 10
	case strings.HasSuffix(s, "M"):
		multiplier = 1 << 20
	case strings.HasSuffix(s, "G"):
		multiplier = 1 << 30
	case strings.HasSuffix(s, "T"):
		multiplier = 1 << 40
	}
	if multiplier > 1 {
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory limit %q", s)
	}
	if v == 0 {
		return 0, fmt.Errorf("memory limit must be positive")
	}
	if v > math.MaxUint64/multiplier {
		return 0, fmt.Errorf("memory limit %q overflows", s)
	}
	return v * multiplier, nil
}

func saturatingMul(a, b uint64) uint64 {
	if a != 0 && b > math.MaxUint64/a {
		return math.MaxUint64
	}
	return a * b
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
