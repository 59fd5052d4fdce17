package monitoring

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats is a snapshot of the server process and its host.
type ProcessStats struct {
	PID           int32   `json:"pid"`
	Hostname      string  `json:"hostname"`
	OS            string  `json:"os"`
	CPUPercent    float64 `json:"cpuPercent"`
	RSSBytes      uint64  `json:"rssBytes"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
}

// StatsCollector samples resource usage of the current process.
type StatsCollector struct {
	proc    *process.Process
	started time.Time
}

// NewStatsCollector attaches to the running process.
func NewStatsCollector() (*StatsCollector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &StatsCollector{proc: proc, started: time.Now()}, nil
}

// Collect returns current stats. Fields that cannot be read on this platform
// are left zero.
func (c *StatsCollector) Collect(ctx context.Context) ProcessStats {
	stats := ProcessStats{
		PID:           c.proc.Pid,
		OS:            runtime.GOOS,
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: int64(time.Since(c.started).Seconds()),
	}
	if info, err := host.InfoWithContext(ctx); err == nil {
		stats.Hostname = info.Hostname
	}
	if cpu, err := c.proc.CPUPercentWithContext(ctx); err == nil {
		stats.CPUPercent = cpu
	}
	if mem, err := c.proc.MemoryInfoWithContext(ctx); err == nil {
		stats.RSSBytes = mem.RSS
	}
	return stats
}
