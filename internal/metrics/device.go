package metrics

import (
	"context"
	"strconv"
	"strings"
)

var archByABI = map[string]string{
	"arm64-v8a":   "ARMv8",
	"armeabi-v7a": "ARMv7",
	"x86_64":      "x86-64",
	"x86":         "x86",
}

// Device returns static device identity. Slow-changing, cached 300s.
func (s *Service) Device(ctx context.Context) (DeviceInfo, error) {
	if cached, ok := s.cache.GetFresh(cacheKeyDevice, slowTTL); ok {
		return cached.(DeviceInfo), nil
	}

	results := s.bridge.ShellBatch(ctx, []string{
		"getprop ro.product.model",
		"getprop ro.product.manufacturer",
		"getprop ro.build.version.release",
		"getprop ro.build.version.sdk",
		"getprop ro.hardware",
		"getprop ro.board.platform",
	})

	info := DeviceInfo{
		Model:          results[0],
		Manufacturer:   results[1],
		AndroidVersion: results[2],
		SDK:            parseIntField(results[3]),
		Hardware:       results[4],
		Board:          results[5],
	}

	s.cache.Put(cacheKeyDevice, info)
	return info, nil
}

// OS returns build and kernel identity. Cached 300s.
func (s *Service) OS(ctx context.Context) (OSInfo, error) {
	if cached, ok := s.cache.GetFresh(cacheKeyOS, slowTTL); ok {
		return cached.(OSInfo), nil
	}

	results := s.bridge.ShellBatch(ctx, []string{
		"getprop ro.build.version.release",
		"getprop ro.build.version.sdk",
		"getprop ro.build.version.security_patch",
		"getprop ro.build.display.id",
		"uname -r",
	})

	info := OSInfo{
		AndroidVersion: results[0],
		SDK:            parseIntField(results[1]),
		SecurityPatch:  results[2],
		BuildID:        results[3],
		KernelVersion:  results[4],
	}

	s.cache.Put(cacheKeyOS, info)
	return info, nil
}

// CPU returns core count and architecture. Cached 300s.
func (s *Service) CPU(ctx context.Context) (CPUInfo, error) {
	if cached, ok := s.cache.GetFresh(cacheKeyCPU, slowTTL); ok {
		return cached.(CPUInfo), nil
	}

	results := s.bridge.ShellBatch(ctx, []string{
		"nproc",
		"getprop ro.product.cpu.abi",
		"getprop ro.product.cpu.abilist",
	})

	var abiList []string
	for _, abi := range strings.Split(results[2], ",") {
		if trimmed := strings.TrimSpace(abi); trimmed != "" {
			abiList = append(abiList, trimmed)
		}
	}

	arch := archByABI[results[1]]
	if arch == "" {
		arch = "Unknown"
	}

	info := CPUInfo{
		Cores:   parseIntField(results[0]),
		ABI:     results[1],
		ABIList: abiList,
		Arch:    arch,
	}

	s.cache.Put(cacheKeyCPU, info)
	return info, nil
}

// parseIntField reads an integer device field with a zero fallback on
// malformed input; a bad field never aborts the record.
func parseIntField(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
