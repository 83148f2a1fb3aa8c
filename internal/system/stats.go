package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of the process and host resources.
type Stats struct {
	RSS          uint64  // Резидентная память процесса, байты
	CPUPercent   float64 // Загрузка CPU процессом с момента старта
	PhysicalCPUs int
	LogicalCPUs  int
	TotalMemory  uint64
	Goroutines   int
}

// CollectStats читает показатели текущего процесса через gopsutil.
func CollectStats() (Stats, error) {
	st := Stats{Goroutines: runtime.NumGoroutine()}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return st, fmt.Errorf("process handle: %w", err)
	}
	mi, err := proc.MemoryInfo()
	if err != nil {
		return st, fmt.Errorf("process memory: %w", err)
	}
	st.RSS = mi.RSS

	if pct, err := proc.CPUPercent(); err == nil {
		st.CPUPercent = pct
	}
	if n, err := cpu.Counts(false); err == nil {
		st.PhysicalCPUs = n
	}
	if n, err := cpu.Counts(true); err == nil {
		st.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.TotalMemory = vm.Total
	}
	return st, nil
}

// DefaultWorkers возвращает число физических ядер, а если его не удалось
// определить, runtime.NumCPU().
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// String форматирует снимок для отчёта -stats.
func (s Stats) String() string {
	return fmt.Sprintf("RSS: %.1f MiB | CPU: %.1f%% | Cores: %d/%d | RAM: %.1f GiB | Goroutines: %d",
		float64(s.RSS)/(1<<20), s.CPUPercent, s.PhysicalCPUs, s.LogicalCPUs,
		float64(s.TotalMemory)/(1<<30), s.Goroutines)
}
