package metrics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Display returns screen size and density from `wm`. Cached 300s.
func (s *Service) Display(ctx context.Context) (DisplayInfo, error) {
	if cached, ok := s.cache.GetFresh(cacheKeyDisplay, slowTTL); ok {
		return cached.(DisplayInfo), nil
	}

	results := s.bridge.ShellBatch(ctx, []string{
		"wm size | head -n 1",
		"wm density | head -n 1",
	})

	info := DisplayInfo{SizePx: "unknown"}
	if _, value, found := strings.Cut(results[0], ":"); found {
		info.SizePx = strings.TrimSpace(value)
	}
	if _, value, found := strings.Cut(results[1], ":"); found {
		fields := strings.Fields(value)
		if len(fields) > 0 {
			if dpi, err := strconv.Atoi(fields[0]); err == nil {
				info.DensityDPI = dpi
			}
		}
	}

	s.cache.Put(cacheKeyDisplay, info)
	return info, nil
}

// Uptime returns device uptime from /proc/uptime with a formatted rendering
// and derived boot time. Never cached.
func (s *Service) Uptime(ctx context.Context) (UptimeInfo, error) {
	raw, err := s.bridge.Shell(ctx, "cat /proc/uptime")
	if err != nil {
		return UptimeInfo{}, err
	}

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return UptimeInfo{}, ErrEmptyResult
	}

	seconds, parseErr := strconv.ParseFloat(fields[0], 64)
	if parseErr != nil {
		return UptimeInfo{}, ErrEmptyResult
	}

	uptimeSeconds := int64(seconds)
	now := time.Now()

	return UptimeInfo{
		UptimeSeconds:   uptimeSeconds,
		UptimeFormatted: formatUptime(uptimeSeconds),
		BootTime:        now.Add(-time.Duration(uptimeSeconds) * time.Second),
	}, nil
}

func formatUptime(seconds int64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, secs)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	default:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
}
