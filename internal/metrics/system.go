package metrics

import (
	"context"
	"time"
)

// System composes every metric family into one snapshot. Each part honors
// its own freshness window; required parts propagate their failures,
// optional parts (governors, idle, mounts, core temperatures) degrade to
// absent.
func (s *Service) System(ctx context.Context) (SystemInfo, error) {
	device, err := s.Device(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	osInfo, err := s.OS(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	cpu, err := s.CPU(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	frequency, err := s.Frequency(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	memory, err := s.Memory(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	storage, err := s.Storage(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	battery, err := s.Battery(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	power, err := s.Power(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	thermal, err := s.Thermal(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	network, err := s.Network(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	display, err := s.Display(ctx)
	if err != nil {
		return SystemInfo{}, err
	}

	info := SystemInfo{
		Device:       device,
		OS:           osInfo,
		CPU:          cpu,
		CPUFrequency: frequency,
		Memory:       memory,
		Storage:      storage,
		Battery:      battery,
		Power:        power,
		Thermal:      thermal,
		Network:      network,
		Display:      display,
		Timestamp:    time.Now(),
	}

	if governors, err := s.Governors(ctx); err == nil {
		info.CPUGovernors = &governors
	} else {
		s.logger.Debug("System snapshot without governors", "error", err, "expected", true)
	}
	if idle, err := s.Idle(ctx); err == nil {
		info.CPUIdle = &idle
	} else {
		s.logger.Debug("System snapshot without idle states", "error", err, "expected", true)
	}
	if mounts, err := s.Mounts(ctx); err == nil {
		info.Mounts = mounts
	} else {
		s.logger.Debug("System snapshot without mount table", "error", err, "expected", true)
	}
	if coreTemps, err := s.CoreTemperatures(ctx); err == nil {
		info.CoreTemperatures = &coreTemps
	} else {
		s.logger.Debug("System snapshot without core temperatures", "error", err, "expected", true)
	}

	return info, nil
}

// Realtime condenses the volatile metrics into the streaming payload.
func (s *Service) Realtime(ctx context.Context) (RealtimeMetrics, error) {
	battery, err := s.Battery(ctx)
	if err != nil {
		return RealtimeMetrics{}, err
	}
	memory, err := s.Memory(ctx)
	if err != nil {
		return RealtimeMetrics{}, err
	}
	storage, err := s.Storage(ctx)
	if err != nil {
		return RealtimeMetrics{}, err
	}
	frequency, err := s.Frequency(ctx)
	if err != nil {
		return RealtimeMetrics{}, err
	}
	thermal, err := s.Thermal(ctx)
	if err != nil {
		return RealtimeMetrics{}, err
	}

	return RealtimeMetrics{
		Timestamp:           time.Now(),
		BatteryLevel:        battery.Level,
		MemoryUsagePercent:  memory.UsagePercent,
		StorageUsagePercent: storage.UsagePercent,
		CPUAvgMHz:           frequency.AvgMHz,
		CPUMaxMHz:           frequency.MaxMHz,
		CPUMinMHz:           frequency.MinMHz,
		ThermalMaxTemp:      thermal.MaxTempC,
	}, nil
}
