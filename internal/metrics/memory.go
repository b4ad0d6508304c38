package metrics

import (
	"context"
	"strconv"
	"strings"

	"github.com/bluecape/droidmetrics/internal/derive"
	"github.com/bluecape/droidmetrics/internal/parse"
)

// Memory returns RAM and swap usage from /proc/meminfo. Volatile; never
// cached.
func (s *Service) Memory(ctx context.Context) (MemoryInfo, error) {
	raw, err := s.bridge.Shell(ctx, "cat /proc/meminfo")
	if err != nil {
		return MemoryInfo{}, err
	}

	values, dropped := parse.KeyValueLines(raw)
	s.logDropped("memory", dropped)
	if len(values) == 0 {
		return MemoryInfo{}, ErrEmptyResult
	}

	totalKB := meminfoKB(values, "MemTotal")
	availableKB := meminfoKB(values, "MemAvailable")
	usedKB := totalKB - availableKB

	return MemoryInfo{
		TotalMB:      derive.KBToMB(totalKB),
		AvailableMB:  derive.KBToMB(availableKB),
		UsedMB:       derive.KBToMB(usedKB),
		UsagePercent: derive.Percent(float64(usedKB), float64(totalKB)),
		SwapTotalMB:  derive.KBToMB(meminfoKB(values, "SwapTotal")),
		SwapFreeMB:   derive.KBToMB(meminfoKB(values, "SwapFree")),
	}, nil
}

// meminfoKB extracts a `<number> kB` field; a missing or malformed field
// reads as zero rather than failing the record.
func meminfoKB(values map[string]string, key string) int64 {
	fields := strings.Fields(values[key])
	if len(fields) == 0 {
		return 0
	}

	kb, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return kb
}
