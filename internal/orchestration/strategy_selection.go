package orchestration

import (
	"fmt"

	"github.com/agbru/matbench/internal/multiply"
)

// Strategy selections accepted by GetMultipliersToRun besides single names.
const (
	// AlgoBoth runs parallel then sequential, the canonical benchmark.
	AlgoBoth = "both"
	// AlgoAll runs parallel, sequential, then every other registered strategy.
	AlgoAll = "all"
)

// GetMultipliersToRun resolves an --algo value into the ordered list of
// strategies to run. "parallel" always precedes "sequential", and any other
// strategies follow in name order.
func GetMultipliersToRun(algo string, factory multiply.Factory) ([]multiply.Multiplier, error) {
	var names []string
	switch algo {
	case AlgoBoth, "":
		names = []string{"parallel", "sequential"}
	case AlgoAll:
		names = []string{"parallel", "sequential"}
		for _, name := range factory.List() {
			if name != "parallel" && name != "sequential" {
				names = append(names, name)
			}
		}
	default:
		names = []string{algo}
	}

	out := make([]multiply.Multiplier, 0, len(names))
	for _, name := range names {
		m, err := factory.Get(name)
		if err != nil {
			return nil, fmt.Errorf("select strategies for %q: %w", algo, err)
		}
		out = append(out, m)
	}
	return out, nil
}
