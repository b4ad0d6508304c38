package metrics

import (
	"context"
	"strconv"
	"strings"

	"github.com/bluecape/droidmetrics/internal/derive"
	"github.com/bluecape/droidmetrics/internal/parse"
)

// Storage returns usage of the /data filesystem. Volatile; never cached.
func (s *Service) Storage(ctx context.Context) (StorageInfo, error) {
	raw, err := s.bridge.Shell(ctx, "df /data | tail -1")
	if err != nil {
		return StorageInfo{}, err
	}

	fields := strings.Fields(raw)
	if len(fields) < 4 {
		return StorageInfo{}, ErrEmptyResult
	}

	totalKB := parseInt64Field(fields[1])
	usedKB := parseInt64Field(fields[2])
	freeKB := parseInt64Field(fields[3])
	if totalKB == 0 {
		return StorageInfo{}, ErrEmptyResult
	}

	return StorageInfo{
		Filesystem:   fields[0],
		TotalGB:      derive.KBToGB(totalKB),
		UsedGB:       derive.KBToGB(usedKB),
		FreeGB:       derive.KBToGB(freeKB),
		UsagePercent: derive.Percent(float64(usedKB), float64(totalKB)),
	}, nil
}

// Mounts returns the full mount table from `df -k`. Cached 30s: cheap to
// recompute but large enough that hammering it is wasteful.
func (s *Service) Mounts(ctx context.Context) ([]MountInfo, error) {
	if cached, ok := s.cache.GetFresh(cacheKeyMounts, fastTTL); ok {
		return cached.([]MountInfo), nil
	}

	raw, err := s.bridge.Shell(ctx, "df -k")
	if err != nil {
		return nil, err
	}

	rows, dropped := parse.MountRows(raw)
	s.logDropped("storage_mounts", dropped)
	if len(rows) == 0 {
		return nil, ErrEmptyResult
	}

	mounts := make([]MountInfo, 0, len(rows))
	for _, row := range rows {
		mounts = append(mounts, MountInfo{
			Filesystem:  row.Filesystem,
			SizeKB:      row.SizeKB,
			UsedKB:      row.UsedKB,
			AvailableKB: row.AvailableKB,
			UsePercent:  row.UsePercent,
			Mountpoint:  row.Mountpoint,
		})
	}

	s.cache.Put(cacheKeyMounts, mounts)
	return mounts, nil
}

// parseInt64Field mirrors parseIntField for 64-bit sizes.
func parseInt64Field(raw string) int64 {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}
