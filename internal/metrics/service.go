// Package metrics turns raw bridge output into typed device records: it
// drives the batched shell transport, feeds the text through the matching
// parser, computes derived values and caches rendered records under
// per-metric freshness windows.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bluecape/droidmetrics/internal/adb"
	"github.com/bluecape/droidmetrics/internal/cache"
)

// ErrEmptyResult means the bridge answered but the parser produced zero
// valid records. Distinct from a connectivity failure: it usually indicates
// an unsupported device or kernel rather than transient noise.
var ErrEmptyResult = errors.New("no parseable records in device output")

// Bridge is the remote-shell surface the metrics layer consumes.
type Bridge interface {
	Shell(ctx context.Context, command string) (string, error)
	ShellSoft(ctx context.Context, command string) (string, error)
	ShellBatch(ctx context.Context, commands []string) []string
	Devices(ctx context.Context) ([]adb.Device, error)
}

// Freshness windows per metric family. Volatile metrics (frequency,
// thermal, idle, memory, battery) bypass the cache entirely and are
// recomputed on every request.
const (
	slowTTL = 300 * time.Second // device identity, OS build, display
	fastTTL = 30 * time.Second  // network, mount table
)

const (
	cacheKeyDevice    = "device_info"
	cacheKeyOS        = "os_info"
	cacheKeyCPU       = "cpu_info"
	cacheKeyGovernors = "cpu_governors"
	cacheKeyMounts    = "storage_mounts"
	cacheKeyNetwork   = "network_info"
	cacheKeyDisplay   = "display_info"
)

type Service struct {
	bridge Bridge
	cache  *cache.Cache
	logger *slog.Logger
}

func NewService(bridge Bridge, store *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		bridge: bridge,
		cache:  store,
		logger: logger,
	}
}

func (s *Service) logDropped(metric string, dropped int) {
	if dropped > 0 {
		s.logger.Debug("Dropped unparseable lines", "metric", metric, "dropped", dropped, "expected", true)
	}
}
