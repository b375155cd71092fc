package monitoring

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// StatUpdater periodically samples host resource usage and logs it. It
// gives operators a heartbeat in the logs without an external metrics
// stack.
type StatUpdater struct {
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(interval time.Duration) *StatUpdater {
	return &StatUpdater{
		interval: interval,
		done:     make(chan bool),
	}
}

// Run starts the periodic sampling.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(su.interval)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.sample()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.sample()
		}
	}
}

// Stop halts the periodic sampling.
func (su *StatUpdater) Stop() {
	su.done <- true
}

func (su *StatUpdater) sample() {
	evt := log.Info()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		evt = evt.Float64("cpu_pct", percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		evt = evt.Uint64("mem_used_mb", vm.Used/1024/1024).Float64("mem_pct", vm.UsedPercent)
	}

	evt.Msg("Host resource sample")
}
