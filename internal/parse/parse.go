// Package parse contains the text parsers for the raw shapes the device
// shell produces: key:value listings, path-indexed sysfs reads, brace
// delimited attribute records and whitespace tables. Every parser is a pure
// function over the raw text; malformed lines are dropped and counted, never
// fatal. Producing zero records is a recognized state the caller must check
// before trusting derived values.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var cpuTokenRe = regexp.MustCompile(`(?:^|/)(cpu[0-9]+)(?:/|$)`)

// KeyValueLines splits `key: value` lines on the first colon, trimming both
// sides. Lines without a colon, or with an empty key or value, are dropped;
// device dumps interleave headers and blank lines and those are not errors.
func KeyValueLines(text string) (map[string]string, int) {
	values := map[string]string{}
	dropped := 0

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			dropped++
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			dropped++
			continue
		}

		values[key] = value
	}

	return values, dropped
}

// PathIndexedInts parses `path: value` lines where the path contains a
// cpu<N> segment, e.g. /sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq.
// Lines without a cpu token or with a non-integer value are dropped.
func PathIndexedInts(text string) (map[string]int, int) {
	values := map[string]int{}
	dropped := 0

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		core, raw, ok := splitPathLine(line)
		if !ok {
			dropped++
			continue
		}

		value, err := strconv.Atoi(raw)
		if err != nil {
			dropped++
			continue
		}
		values[core] = value
	}

	return values, dropped
}

// PathIndexedStrings is PathIndexedInts without the integer requirement;
// used for per-core governor names.
func PathIndexedStrings(text string) (map[string]string, int) {
	values := map[string]string{}
	dropped := 0

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		core, raw, ok := splitPathLine(line)
		if !ok {
			dropped++
			continue
		}
		values[core] = raw
	}

	return values, dropped
}

func splitPathLine(line string) (core, value string, ok bool) {
	path, raw, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}

	match := cpuTokenRe.FindStringSubmatch(strings.TrimSpace(path))
	if match == nil {
		return "", "", false
	}

	return match[1], strings.TrimSpace(raw), true
}

// BraceRecord is one `Prefix{k1=v1, k2=v2}` group keyed by its name
// attribute.
type BraceRecord struct {
	Name  string
	Attrs map[string]string
}

// Float returns the named attribute parsed as a float. Attributes that fail
// to parse are reported as absent rather than aborting the record.
func (r BraceRecord) Float(key string) (float64, bool) {
	raw, exists := r.Attrs[key]
	if !exists {
		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// BraceRecords extracts every `prefix{...}` group from the text and splits
// its body into key=value attributes. Groups lacking the nameKey attribute
// are discarded and counted.
func BraceRecords(text, prefix, nameKey string) (map[string]BraceRecord, int) {
	records := map[string]BraceRecord{}
	dropped := 0
	opener := prefix + "{"

	rest := text
	for {
		start := strings.Index(rest, opener)
		if start == -1 {
			break
		}
		rest = rest[start+len(opener):]

		end := strings.Index(rest, "}")
		if end == -1 {
			dropped++
			break
		}
		body := rest[:end]
		rest = rest[end+1:]

		attrs := map[string]string{}
		for _, item := range strings.Split(body, ",") {
			key, value, found := strings.Cut(item, "=")
			if !found {
				continue
			}
			attrs[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}

		name := attrs[nameKey]
		if name == "" {
			dropped++
			continue
		}

		records[name] = BraceRecord{Name: name, Attrs: attrs}
	}

	return records, dropped
}

// MountRow is one data row of `df -k` output.
type MountRow struct {
	Filesystem  string
	SizeKB      int64
	UsedKB      int64
	AvailableKB int64
	UsePercent  int
	Mountpoint  string
}

// MountRows parses `df -k` output: one header line, then five positional
// fields plus a mount path that may itself contain spaces and is rejoined
// with single spaces. Short rows and rows with non-numeric sizes are
// dropped.
func MountRows(text string) ([]MountRow, int) {
	var rows []MountRow
	dropped := 0
	header := true

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header {
			header = false
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			dropped++
			continue
		}

		sizeKB, errSize := strconv.ParseInt(fields[1], 10, 64)
		usedKB, errUsed := strconv.ParseInt(fields[2], 10, 64)
		availableKB, errAvail := strconv.ParseInt(fields[3], 10, 64)
		if errSize != nil || errUsed != nil || errAvail != nil {
			dropped++
			continue
		}

		usePercent, err := strconv.Atoi(strings.TrimSuffix(fields[4], "%"))
		if err != nil {
			usePercent = 0
		}

		rows = append(rows, MountRow{
			Filesystem:  fields[0],
			SizeKB:      sizeKB,
			UsedKB:      usedKB,
			AvailableKB: availableKB,
			UsePercent:  usePercent,
			Mountpoint:  strings.Join(fields[5:], " "),
		})
	}

	return rows, dropped
}

// IdleState is one cpuidle state row for a core.
type IdleState struct {
	State  string `json:"state"`
	Name   string `json:"name"`
	TimeUS int64  `json:"time_us"`
	Usage  int64  `json:"usage"`
}

// IdleStateRows parses `cpuN stateK name time usage` rows into per-core
// state lists. Rows with fewer than five fields are dropped; counters that
// fail to parse default to zero.
func IdleStateRows(text string) (map[string][]IdleState, int) {
	perCore := map[string][]IdleState{}
	dropped := 0

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			dropped++
			continue
		}

		timeUS, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			timeUS = 0
		}
		usage, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			usage = 0
		}

		core := fields[0]
		perCore[core] = append(perCore[core], IdleState{
			State:  fields[1],
			Name:   fields[2],
			TimeUS: timeUS,
			Usage:  usage,
		})
	}

	return perCore, dropped
}
