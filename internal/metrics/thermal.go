package metrics

import (
	"context"
	"regexp"
	"strings"

	"github.com/bluecape/droidmetrics/internal/derive"
	"github.com/bluecape/droidmetrics/internal/parse"
)

var coreSensorRe = regexp.MustCompile(`^cpu[0-9]+$`)

// Thermal returns every sensor reported by the thermal service with derived
// min/max. Snapshot readings; never cached.
func (s *Service) Thermal(ctx context.Context) (ThermalInfo, error) {
	temps, err := s.thermalSensors(ctx)
	if err != nil {
		return ThermalInfo{}, err
	}
	if len(temps) == 0 {
		return ThermalInfo{}, ErrEmptyResult
	}

	summary := derive.SummarizeFloats(temps)
	return ThermalInfo{
		Temperatures: temps,
		MaxTempC:     summary.Max,
		MinTempC:     summary.Min,
	}, nil
}

// CoreTemperatures filters the thermal sensors down to per-core readings.
// Many devices expose none; that is reported through the availability flag
// rather than an error.
func (s *Service) CoreTemperatures(ctx context.Context) (CoreTemperatures, error) {
	temps, err := s.thermalSensors(ctx)
	if err != nil {
		return CoreTemperatures{}, err
	}

	perCore := map[string]float64{}
	for name, value := range temps {
		lowered := strings.ToLower(name)
		if coreSensorRe.MatchString(lowered) {
			perCore[lowered] = value
		}
	}

	return CoreTemperatures{
		PerCore:   perCore,
		Source:    "thermalservice",
		Available: len(perCore) > 0,
	}, nil
}

// thermalSensors parses `dumpsys thermalservice` brace records, e.g.
// Temperature{mValue=39.5, mType=0, mName=AP, mStatus=0}. Records without a
// name are discarded by the parser; a missing or malformed mValue reads as
// zero for that sensor.
func (s *Service) thermalSensors(ctx context.Context) (map[string]float64, error) {
	raw, err := s.bridge.Shell(ctx, "dumpsys thermalservice")
	if err != nil {
		return nil, err
	}

	records, dropped := parse.BraceRecords(raw, "Temperature", "mName")
	s.logDropped("thermal", dropped)

	temps := map[string]float64{}
	for name, record := range records {
		value, _ := record.Float("mValue")
		temps[name] = value
	}

	return temps, nil
}
