package metrics

import (
	"runtime"
	"time"
)

// RunMemory is the runtime memory state after multiplying two size×size
// operands.
type RunMemory struct {
	Size      int
	HeapAlloc uint64
	NumGC     uint32
	GCPause   time.Duration
}

// ReadRunMemory reads the runtime memory statistics for a run of the given
// size.
func ReadRunMemory(size int) RunMemory {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return RunMemory{
		Size:      size,
		HeapAlloc: ms.HeapAlloc,
		NumGC:     ms.NumGC,
		GCPause:   time.Duration(ms.PauseTotalNs),
	}
}

// OperandBytes is the storage of one float64 operand.
func (r RunMemory) OperandBytes() uint64 {
	return uint64(r.Size) * uint64(r.Size) * 8
}

// HeapPerOperand is the live heap expressed in operand-sized matrices. It is
// zero for an empty operand.
func (r RunMemory) HeapPerOperand() float64 {
	ob := r.OperandBytes()
	if ob == 0 {
		return 0
	}
	return float64(r.HeapAlloc) / float64(ob)
}
