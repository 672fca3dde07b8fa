package timescale

import (
	"testing"
	"time"
)

func TestToTicks(t *testing.T) {
	const scale uint64 = 1000000
	values := []struct {
		T time.Duration
		V int64
	}{
		{0, 0},
		{time.Millisecond - 1, 1},
		{time.Millisecond + 0, 1},
		{time.Millisecond + 1, 1},
		{time.Millisecond / 2, 1},
		{time.Millisecond/2 - 1, 0},
		{time.Second, 1000},
		{-time.Millisecond - 1, -1},
		{-time.Millisecond / 2, -1},
		{-time.Millisecond/2 + 1, 0},
		{time.Hour * 1000, 3600000000},
	}
	for _, ex := range values {
		n := ToTicks(ex.T, scale)
		if n != ex.V {
			t.Errorf("%d (%s): expected %d, got %d", ex.T, ex.T, ex.V, n)
		}
	}
}

func TestFromTicks(t *testing.T) {
	values := []struct {
		Ticks int64
		Scale uint64
		T     time.Duration
	}{
		{0, 1000000, 0},
		{1338, 1000000, 1338 * time.Millisecond},
		{-5, 1000000, -5 * time.Millisecond},
		{90, 100000, 9 * time.Millisecond},
	}
	for _, ex := range values {
		d := FromTicks(ex.Ticks, ex.Scale)
		if d != ex.T {
			t.Errorf("%d@%d: expected %s, got %s", ex.Ticks, ex.Scale, ex.T, d)
		}
	}
}

func TestRelative(t *testing.T) {
	values := []struct {
		TC   int64
		Base int64
		V    int16
	}{
		{0, 0, 0},
		{1040, 1000, 40},
		{960, 1000, -40},
		{1000 + 32767, 1000, 32767},
		{100000, 0, 32767},
		{0, 100000, -32768},
	}
	for _, ex := range values {
		n := Relative(ex.TC, ex.Base)
		if n != ex.V {
			t.Errorf("%d - %d: expected %d, got %d", ex.TC, ex.Base, ex.V, n)
		}
	}
}
