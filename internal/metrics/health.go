package metrics

import (
	"context"
	"time"
)

// Health reports whether a device is attached and usable. "degraded" means
// the bridge answered but no device is in the ready state.
func (s *Service) Health(ctx context.Context) (HealthStatus, error) {
	devices, err := s.bridge.Devices(ctx)
	if err != nil {
		return HealthStatus{}, err
	}

	connected := false
	for _, device := range devices {
		if device.State == "device" {
			connected = true
			break
		}
	}

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	return HealthStatus{
		Status:       status,
		ADBConnected: connected,
		Timestamp:    time.Now(),
	}, nil
}
