package cmd

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// logicalCPUs returns the number of logical CPUs on the host, falling back
// to the Go runtime's view when the host cannot be queried
func logicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		logger.Warningf("unable to query CPU count, using runtime value: %v", err)
		return runtime.NumCPU()
	}
	return n
}

// logHostInfo reports the CPU model and memory of the host
func logHostInfo() {
	model := "unknown CPU"
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		model = info[0].ModelName
	}

	var totalGB float64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalGB = float64(vm.Total) / (1 << 30)
	}
	logger.Infof("host: %s, %d logical CPUs, %.1f GB RAM", model, logicalCPUs(), totalGB)
}
