// Package derive computes aggregates and unit conversions from parsed
// device readings. All rounding goes through Round2 so derived values are
// reproducible bit for bit.
package derive

import "math"

// Summary aggregates a per-core or per-sensor numeric map. Count zero means
// there were no samples; Min, Max and Avg are meaningless then and callers
// must check Count before using them.
type Summary struct {
	Min   float64
	Max   float64
	Avg   float64
	Count int
}

// SummarizeInts folds a per-key integer map into min/max/mean/count.
func SummarizeInts(values map[string]int) Summary {
	floats := make([]float64, 0, len(values))
	for _, value := range values {
		floats = append(floats, float64(value))
	}
	return summarize(floats)
}

// SummarizeFloats folds a per-key float map into min/max/mean/count.
func SummarizeFloats(values map[string]float64) Summary {
	floats := make([]float64, 0, len(values))
	for _, value := range values {
		floats = append(floats, value)
	}
	return summarize(floats)
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	summary := Summary{Min: values[0], Max: values[0], Count: len(values)}
	sum := 0.0
	for _, value := range values {
		if value < summary.Min {
			summary.Min = value
		}
		if value > summary.Max {
			summary.Max = value
		}
		sum += value
	}
	summary.Avg = sum / float64(len(values))

	return summary
}

// Round2 rounds to two decimal places, half away from zero. Rounding an
// already-rounded value is a no-op.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// KBToMB converts kilobytes to megabytes (÷1024), rounded.
func KBToMB(kb int64) float64 {
	return Round2(float64(kb) / 1024)
}

// KBToGB converts kilobytes to gigabytes (÷1024²), rounded.
func KBToGB(kb int64) float64 {
	return Round2(float64(kb) / (1024 * 1024))
}

// KHzToMHz converts kilohertz to megahertz (÷1000), rounded.
func KHzToMHz(khz float64) float64 {
	return Round2(khz / 1000)
}

// TenthsToDegrees converts tenths of a degree, as dumpsys reports battery
// temperature, to degrees. Exact: 346 -> 34.6.
func TenthsToDegrees(tenths int64) float64 {
	return float64(tenths) / 10
}

// Percent computes used/total*100 rounded to two decimals. A zero or
// negative total yields zero rather than a division fault.
func Percent(used, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(used / total * 100)
}
