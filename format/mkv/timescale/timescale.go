package timescale

import (
	"math"
	"time"
)

// ToTicks converts t to ticks of scale nanoseconds, rounding half away from zero
func ToTicks(t time.Duration, scale uint64) int64 {
	s := int64(scale)
	q, r := int64(t)/s, int64(t)%s
	if r < 0 {
		r = -r
	}
	if 2*r >= s {
		// round up
		if t > 0 {
			q++
		} else {
			q--
		}
	}
	return q
}

// FromTicks converts ticks of scale nanoseconds back to a time.Duration
func FromTicks(ticks int64, scale uint64) time.Duration {
	return time.Duration(ticks * int64(scale))
}

// Relative returns the block timecode of tick tc in a cluster starting
// at base, clamped to int16
func Relative(tc, base int64) int16 {
	rel := tc - base
	switch {
	case rel > math.MaxInt16:
		return math.MaxInt16
	case rel < math.MinInt16:
		return math.MinInt16
	}
	return int16(rel)
}
