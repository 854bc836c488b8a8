package workers

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/shirou/gopsutil/process"
)

const channelPressureRatio = 0.8

type NamedChannel struct {
	Name    string
	Channel any
}

// HealthMonitor periodically samples the backend process and the fill level
// of its internal channels. Reading len and cap of a channel never blocks.
type HealthMonitor struct {
	log            *slog.Logger
	channels       []NamedChannel
	metricInterval time.Duration
	pid            int32
}

func NewHealthMonitor(log *slog.Logger, channels []NamedChannel, metricInterval time.Duration) *HealthMonitor {
	return &HealthMonitor{
		log:            log,
		channels:       channels,
		metricInterval: metricInterval,
		pid:            int32(os.Getpid()),
	}
}

func (w *HealthMonitor) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitor")
			return nil
		case <-ticker.C:
			w.sampleProcess(p)
			w.sampleChannels()
		}
	}
}

func (w *HealthMonitor) sampleProcess(p *process.Process) {
	cpu, err := p.CPUPercent()
	if err != nil {
		w.log.Debug("Error while finding process cpu usage", "error", err)
		return
	}
	ram, err := p.MemoryPercent()
	if err != nil {
		w.log.Debug("Error while finding process ram usage", "error", err)
		return
	}
	w.log.Debug("Backend process", "pid", w.pid, "cpu", cpu, "ram", ram)
}

func (w *HealthMonitor) sampleChannels() {
	for _, nc := range w.channels {
		length, capacity, ok := ChannelLoad(nc.Channel)
		if !ok {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		if capacity > 0 && float64(length) >= channelPressureRatio*float64(capacity) {
			w.log.Warn("Channel under pressure", "name", nc.Name, "length", length, "capacity", capacity)
		}
	}
}

// ChannelLoad returns len and cap of any channel value.
func ChannelLoad(ch any) (length, capacity int, ok bool) {
	v := reflect.ValueOf(ch)
	if v.Kind() != reflect.Chan {
		return 0, 0, false
	}
	return v.Len(), v.Cap(), true
}
