package metrics

import (
	"context"
	"strconv"
	"strings"

	"github.com/bluecape/droidmetrics/internal/derive"
	"github.com/bluecape/droidmetrics/internal/parse"
)

// Battery returns charge level and health from `dumpsys battery`. Snapshot
// readings; never cached.
func (s *Service) Battery(ctx context.Context) (BatteryInfo, error) {
	values, err := s.batteryDump(ctx)
	if err != nil {
		return BatteryInfo{}, err
	}

	return BatteryInfo{
		Level:        parseIntField(values["level"]),
		Health:       fieldOr(values, "health", "unknown"),
		Status:       fieldOr(values, "status", "unknown"),
		VoltageMV:    parseIntField(values["voltage"]),
		TemperatureC: derive.TenthsToDegrees(int64(parseIntField(values["temperature"]))),
		Technology:   fieldOr(values, "technology", "unknown"),
		IsCharging:   isTrue(values["AC powered"]) || isTrue(values["USB powered"]),
	}, nil
}

// Power returns draw and charging state from the same dump. Never cached.
func (s *Service) Power(ctx context.Context) (PowerInfo, error) {
	values, err := s.batteryDump(ctx)
	if err != nil {
		return PowerInfo{}, err
	}

	info := PowerInfo{
		CurrentMA:      parseIntField(values["current now"]),
		ChargingStatus: chargingStatus(values["status"]),
	}

	if raw, exists := values["Charge counter"]; exists {
		if counter, err := strconv.Atoi(raw); err == nil {
			info.ChargeCounter = &counter
		}
	}
	if raw, exists := values["Max charging current"]; exists {
		if current, err := strconv.Atoi(raw); err == nil {
			info.MaxChargingCurrent = &current
		}
	}

	return info, nil
}

func (s *Service) batteryDump(ctx context.Context) (map[string]string, error) {
	raw, err := s.bridge.Shell(ctx, "dumpsys battery")
	if err != nil {
		return nil, err
	}

	values, dropped := parse.KeyValueLines(raw)
	s.logDropped("battery", dropped)
	if len(values) == 0 {
		return nil, ErrEmptyResult
	}

	return values, nil
}

// chargingStatus maps dumpsys status to a stable word; some builds report
// the BatteryManager numeric codes instead of names.
func chargingStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "charging", "2":
		return "charging"
	case "discharging", "3":
		return "discharging"
	case "not charging", "4":
		return "not_charging"
	case "full", "5":
		return "full"
	default:
		return "unknown"
	}
}

func fieldOr(values map[string]string, key, fallback string) string {
	if value := values[key]; value != "" {
		return value
	}
	return fallback
}

func isTrue(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}
