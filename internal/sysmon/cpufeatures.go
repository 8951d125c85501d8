package sysmon

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures lists the vector and fused-multiply-add extensions the CPU
// reports. The multipliers are scalar Go, so this only documents the machine
// a timing was taken on.
func CPUFeatures() []string {
	var feats []string
	add := func(ok bool, name string) {
		if ok {
			feats = append(feats, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE2, "sse2")
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "neon")
		add(cpu.ARM64.HasFPHP, "fp16")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return feats
}

// CPUFeatureString joins CPUFeatures for display, or returns "none".
func CPUFeatureString() string {
	feats := CPUFeatures()
	if len(feats) == 0 {
		return "none"
	}
	return strings.Join(feats, ", ")
}
