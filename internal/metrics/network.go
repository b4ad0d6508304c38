package metrics

import (
	"context"
	"strings"
)

// Network returns hostname, wifi addressing and carrier state. Cached 30s.
func (s *Service) Network(ctx context.Context) (NetworkInfo, error) {
	if cached, ok := s.cache.GetFresh(cacheKeyNetwork, fastTTL); ok {
		return cached.(NetworkInfo), nil
	}

	results := s.bridge.ShellBatch(ctx, []string{
		"getprop net.hostname",
		"getprop dhcp.wlan0.ipaddress",
		"getprop gsm.operator.alpha",
		"getprop gsm.network.type",
		"getprop gsm.data.state",
	})

	info := NetworkInfo{
		Hostname:    results[0],
		WifiIP:      results[1],
		Carrier:     results[2],
		NetworkType: results[3],
		DataState:   results[4],
	}
	if info.Hostname == "" {
		info.Hostname = "android"
	}

	// The dhcp property is empty on newer builds; fall back to the
	// interface address. Both reads are best-effort.
	if info.WifiIP == "" {
		raw, err := s.bridge.ShellSoft(ctx, "ip -f inet addr show wlan0 | grep inet | awk '{print $2}' | head -n 1")
		if err != nil {
			s.logger.Debug("Wifi address read failed", "error", err, "expected", true)
		}
		if raw != "" {
			info.WifiIP, _, _ = strings.Cut(raw, "/")
		}
	}

	mac, err := s.bridge.ShellSoft(ctx, "cat /sys/class/net/wlan0/address")
	if err != nil {
		s.logger.Debug("Wifi MAC read failed", "error", err, "expected", true)
	}
	info.WifiMAC = mac

	s.cache.Put(cacheKeyNetwork, info)
	return info, nil
}
