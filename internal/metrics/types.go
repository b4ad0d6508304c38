package metrics

import (
	"time"

	"github.com/bluecape/droidmetrics/internal/parse"
)

type DeviceInfo struct {
	Model          string `json:"model"`
	Manufacturer   string `json:"manufacturer"`
	AndroidVersion string `json:"android_version"`
	SDK            int    `json:"sdk"`
	Hardware       string `json:"hardware"`
	Board          string `json:"board"`
}

type OSInfo struct {
	AndroidVersion string `json:"android_version"`
	SDK            int    `json:"sdk"`
	SecurityPatch  string `json:"security_patch"`
	BuildID        string `json:"build_id"`
	KernelVersion  string `json:"kernel_version"`
}

type CPUInfo struct {
	Cores   int      `json:"cores"`
	ABI     string   `json:"abi"`
	ABIList []string `json:"abi_list"`
	Arch    string   `json:"arch"`
}

type CPUFrequency struct {
	PerCore   map[string]int `json:"per_core"`
	MinKHz    int            `json:"min_khz"`
	MaxKHz    int            `json:"max_khz"`
	MinMHz    float64        `json:"min_mhz"`
	MaxMHz    float64        `json:"max_mhz"`
	AvgMHz    float64        `json:"avg_mhz"`
	CoreCount int            `json:"core_count"`
}

type CPUGovernors struct {
	PerCore            map[string]string `json:"per_core"`
	AvailableGovernors []string          `json:"available_governors"`
}

type CPUIdle struct {
	PerCore map[string][]parse.IdleState `json:"per_core"`
}

type MemoryInfo struct {
	TotalMB      float64 `json:"total_mb"`
	AvailableMB  float64 `json:"available_mb"`
	UsedMB       float64 `json:"used_mb"`
	UsagePercent float64 `json:"usage_percent"`
	SwapTotalMB  float64 `json:"swap_total_mb"`
	SwapFreeMB   float64 `json:"swap_free_mb"`
}

type StorageInfo struct {
	Filesystem   string  `json:"filesystem"`
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	FreeGB       float64 `json:"free_gb"`
	UsagePercent float64 `json:"usage_percent"`
}

type MountInfo struct {
	Filesystem  string `json:"filesystem"`
	SizeKB      int64  `json:"size_kb"`
	UsedKB      int64  `json:"used_kb"`
	AvailableKB int64  `json:"available_kb"`
	UsePercent  int    `json:"use_percent"`
	Mountpoint  string `json:"mountpoint"`
}

type BatteryInfo struct {
	Level        int     `json:"level"`
	Health       string  `json:"health"`
	Status       string  `json:"status"`
	VoltageMV    int     `json:"voltage_mv"`
	TemperatureC float64 `json:"temperature_c"`
	Technology   string  `json:"technology"`
	IsCharging   bool    `json:"is_charging"`
}

type PowerInfo struct {
	CurrentMA          int    `json:"current_ma"`
	ChargeCounter      *int   `json:"charge_counter"`
	MaxChargingCurrent *int   `json:"max_charging_current"`
	ChargingStatus     string `json:"charging_status"`
}

type ThermalInfo struct {
	Temperatures map[string]float64 `json:"temperatures"`
	MaxTempC     float64            `json:"max_temp_c"`
	MinTempC     float64            `json:"min_temp_c"`
}

type CoreTemperatures struct {
	PerCore   map[string]float64 `json:"per_core"`
	Source    string             `json:"source"`
	Available bool               `json:"available"`
}

type NetworkInfo struct {
	Hostname    string `json:"hostname"`
	WifiIP      string `json:"wifi_ip,omitempty"`
	WifiMAC     string `json:"wifi_mac,omitempty"`
	Carrier     string `json:"carrier,omitempty"`
	NetworkType string `json:"network_type,omitempty"`
	DataState   string `json:"data_state,omitempty"`
}

type DisplayInfo struct {
	SizePx     string `json:"size_px"`
	DensityDPI int    `json:"density_dpi"`
}

type UptimeInfo struct {
	UptimeSeconds   int64     `json:"uptime_seconds"`
	UptimeFormatted string    `json:"uptime_formatted"`
	BootTime        time.Time `json:"boot_time"`
}

type HealthStatus struct {
	Status       string    `json:"status"`
	ADBConnected bool      `json:"adb_connected"`
	Timestamp    time.Time `json:"timestamp"`
}

// RealtimeMetrics is the condensed snapshot pushed over the websocket
// streams, published to MQTT and exported to Prometheus.
type RealtimeMetrics struct {
	Timestamp           time.Time `json:"timestamp"`
	BatteryLevel        int       `json:"battery_level"`
	MemoryUsagePercent  float64   `json:"memory_usage_percent"`
	StorageUsagePercent float64   `json:"storage_usage_percent"`
	CPUAvgMHz           float64   `json:"cpu_avg_mhz"`
	CPUMaxMHz           float64   `json:"cpu_max_mhz"`
	CPUMinMHz           float64   `json:"cpu_min_mhz"`
	ThermalMaxTemp      float64   `json:"thermal_max_temp"`
}

type SystemInfo struct {
	Device           DeviceInfo        `json:"device"`
	OS               OSInfo            `json:"os"`
	CPU              CPUInfo           `json:"cpu"`
	CPUFrequency     CPUFrequency      `json:"cpu_frequency"`
	CPUGovernors     *CPUGovernors     `json:"cpu_governors,omitempty"`
	CPUIdle          *CPUIdle          `json:"cpu_idle,omitempty"`
	Memory           MemoryInfo        `json:"memory"`
	Storage          StorageInfo       `json:"storage"`
	Mounts           []MountInfo       `json:"mounts,omitempty"`
	Battery          BatteryInfo       `json:"battery"`
	Power            PowerInfo         `json:"power"`
	Thermal          ThermalInfo       `json:"thermal"`
	CoreTemperatures *CoreTemperatures `json:"core_temperatures,omitempty"`
	Network          NetworkInfo       `json:"network"`
	Display          DisplayInfo       `json:"display"`
	Timestamp        time.Time         `json:"timestamp"`
}
