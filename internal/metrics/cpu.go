package metrics

import (
	"context"
	"strconv"
	"strings"

	"github.com/bluecape/droidmetrics/internal/derive"
	"github.com/bluecape/droidmetrics/internal/parse"
)

const (
	scalingCurFreqCmd = "for f in /sys/devices/system/cpu/cpu*/cpufreq/scaling_cur_freq; do echo $f: $(cat $f); done"
	cpuinfoMinFreqCmd = "for f in /sys/devices/system/cpu/cpu*/cpufreq/cpuinfo_min_freq; do cat $f; done"
	cpuinfoMaxFreqCmd = "for f in /sys/devices/system/cpu/cpu*/cpufreq/cpuinfo_max_freq; do cat $f; done"

	availableGovernorsCmd = "cat /sys/devices/system/cpu/cpu0/cpufreq/scaling_available_governors"
	scalingGovernorCmd    = "for f in /sys/devices/system/cpu/cpu*/cpufreq/scaling_governor; do echo $f: $(cat $f); done"

	cpuIdleCmd = "for cpu in /sys/devices/system/cpu/cpu[0-9]*; do " +
		"c=$(basename $cpu); " +
		"for s in $cpu/cpuidle/state*; do " +
		"st=$(basename $s); " +
		"name=$(cat $s/name 2>/dev/null); " +
		"time=$(cat $s/time 2>/dev/null); " +
		"usage=$(cat $s/usage 2>/dev/null); " +
		"echo $c $st $name $time $usage; " +
		"done; " +
		"done"
)

// Frequency returns real-time per-core scaling frequencies with derived
// min/max/avg. Volatile; never cached. The hardware min/max limits are read
// best-effort and fall back to the observed values when a core's cpufreq
// files are missing.
func (s *Service) Frequency(ctx context.Context) (CPUFrequency, error) {
	raw, err := s.bridge.Shell(ctx, scalingCurFreqCmd)
	if err != nil {
		return CPUFrequency{}, err
	}

	perCore, dropped := parse.PathIndexedInts(raw)
	s.logDropped("cpu_frequency", dropped)
	if len(perCore) == 0 {
		return CPUFrequency{}, ErrEmptyResult
	}

	summary := derive.SummarizeInts(perCore)
	minKHz := int(summary.Min)
	maxKHz := int(summary.Max)

	if limit, ok := s.readFreqLimit(ctx, cpuinfoMinFreqCmd, false); ok {
		minKHz = limit
	}
	if limit, ok := s.readFreqLimit(ctx, cpuinfoMaxFreqCmd, true); ok {
		maxKHz = limit
	}

	return CPUFrequency{
		PerCore:   perCore,
		MinKHz:    minKHz,
		MaxKHz:    maxKHz,
		MinMHz:    derive.KHzToMHz(float64(minKHz)),
		MaxMHz:    derive.KHzToMHz(float64(maxKHz)),
		AvgMHz:    derive.KHzToMHz(summary.Avg),
		CoreCount: summary.Count,
	}, nil
}

// readFreqLimit reads one frequency per line and folds it to the extreme
// value. Soft read: a missing cpufreq file must not abort the request.
func (s *Service) readFreqLimit(ctx context.Context, command string, wantMax bool) (int, bool) {
	raw, err := s.bridge.ShellSoft(ctx, command)
	if err != nil {
		s.logger.Debug("Cpufreq limit read failed, using observed values", "error", err, "expected", true)
	}

	limit := 0
	found := false
	for _, line := range strings.Split(raw, "\n") {
		value, parseErr := strconv.Atoi(strings.TrimSpace(line))
		if parseErr != nil {
			continue
		}
		if !found || (wantMax && value > limit) || (!wantMax && value < limit) {
			limit = value
			found = true
		}
	}

	return limit, found
}

// Governors returns per-core scaling governors plus the governor set the
// kernel offers. Cached 300s.
func (s *Service) Governors(ctx context.Context) (CPUGovernors, error) {
	if cached, ok := s.cache.GetFresh(cacheKeyGovernors, slowTTL); ok {
		return cached.(CPUGovernors), nil
	}

	results := s.bridge.ShellBatch(ctx, []string{availableGovernorsCmd, scalingGovernorCmd})

	available := strings.Fields(results[0])

	perCore, dropped := parse.PathIndexedStrings(results[1])
	s.logDropped("cpu_governors", dropped)
	if len(perCore) == 0 {
		return CPUGovernors{}, ErrEmptyResult
	}

	info := CPUGovernors{PerCore: perCore, AvailableGovernors: available}
	s.cache.Put(cacheKeyGovernors, info)
	return info, nil
}

// Idle returns per-core cpuidle state counters. Volatile; never cached.
func (s *Service) Idle(ctx context.Context) (CPUIdle, error) {
	raw, err := s.bridge.Shell(ctx, cpuIdleCmd)
	if err != nil {
		return CPUIdle{}, err
	}

	perCore, dropped := parse.IdleStateRows(raw)
	s.logDropped("cpu_idle", dropped)
	if len(perCore) == 0 {
		return CPUIdle{}, ErrEmptyResult
	}

	return CPUIdle{PerCore: perCore}, nil
}
