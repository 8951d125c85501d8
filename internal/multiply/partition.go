package multiply

// PartitionRange is a half-open range [Start, End) of result rows owned by a
// single worker.
type PartitionRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r PartitionRange) Len() int { return r.End - r.Start }

// Contains reports whether row i belongs to the range.
func (r PartitionRange) Contains(i int) bool { return i >= r.Start && i < r.End }

// Plan splits size rows into workers contiguous ranges. The first
// size%workers ranges hold one extra row, so lengths differ by at most one.
// The result always has exactly workers entries; when workers exceeds size
// the trailing ranges are empty. workers < 1 is treated as 1.
func Plan(size, workers int) []PartitionRange {
	if workers < 1 {
		workers = 1
	}
	if size < 0 {
		size = 0
	}
	base := size / workers
	remainder := size % workers

	ranges := make([]PartitionRange, workers)
	start := 0
	for w := 0; w < workers; w++ {
		n := base
		if w < remainder {
			n++
		}
		ranges[w] = PartitionRange{Start: start, End: start + n}
		start += n
	}
	return ranges
}
