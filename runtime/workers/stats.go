package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"github.com/Zzzoorroo/Duo-Project/contract"
	"github.com/Zzzoorroo/Duo-Project/observability"
)

// StatsWorker periodically logs process health and relay counters: resident
// memory, CPU, live session count, and the monitor's totals.
type StatsWorker struct {
	log      *slog.Logger
	interval time.Duration
	registry contract.IRegistry
	monitor  *observability.Monitor
}

func NewStatsWorker(log *slog.Logger, interval time.Duration,
	registry contract.IRegistry, monitor *observability.Monitor) *StatsWorker {
	return &StatsWorker{log: log, interval: interval, registry: registry, monitor: monitor}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping stats worker")
			return nil
		case <-ticker.C:
			rss, cpu := selfStats(p)
			stats := w.monitor.Snapshot()
			w.log.Info("Relay stats",
				"online", w.registry.Count(),
				"messages_accepted", stats.MessagesAccepted,
				"messages_persisted", stats.MessagesPersisted,
				"storage_failures", stats.StorageFailures,
				"events_delivered", stats.EventsDelivered,
				"dropped_clients", stats.DroppedClients,
				"auth_failures", stats.AuthFailures,
				"rss_mb", rss/1024/1024,
				"cpu_percent", cpu)
		}
	}
}

// selfStats retrieves memory and CPU usage of this process. Metric failures
// are not worth crashing the worker for.
func selfStats(p *process.Process) (uint64, float64) {
	var rss uint64
	var cpu float64
	if memInfo, err := p.MemoryInfo(); err == nil {
		rss = memInfo.RSS
	}
	if cpuPercent, err := p.CPUPercent(); err == nil {
		cpu = cpuPercent
	}
	return rss, cpu
}
