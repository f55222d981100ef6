package runner

import (
	"testing"
	"time"

	"github.com/meteocima/aqm-runner/conf"
	"github.com/stretchr/testify/assert"
)

func cycleAt(hour int) time.Time {
	return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
}

func TestFcstLenScalar(t *testing.T) {
	cy := conf.CyclesConf{
		IntervalHours:  6,
		FirstCycleHour: "00",
		FcstLenHours:   24,
	}

	got, err := FcstLenHours(cy, cycleAt(12))
	assert.NoError(t, err)
	assert.Equal(t, 24, got)
}

func TestFcstLenSchedule(t *testing.T) {
	cy := conf.CyclesConf{
		IntervalHours:   6,
		FirstCycleHour:  "00",
		FcstLenHours:    -1,
		FcstLenSchedule: []int{6, 72, 72, 6},
	}

	for hour, want := range map[int]int{0: 6, 6: 72, 12: 72, 18: 6} {
		got, err := FcstLenHours(cy, cycleAt(hour))
		assert.NoError(t, err)
		assert.Equal(t, want, got, "cycle hour %02d", hour)
	}
}

func TestFcstLenScheduleOutOfRange(t *testing.T) {
	cy := conf.CyclesConf{
		IntervalHours:   6,
		FirstCycleHour:  "00",
		FcstLenHours:    -1,
		FcstLenSchedule: []int{6, 72},
	}

	_, err := FcstLenHours(cy, cycleAt(18))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "outside")
}

func TestFcstLenFirstCycleOffset(t *testing.T) {
	cy := conf.CyclesConf{
		IntervalHours:   6,
		FirstCycleHour:  "06",
		FcstLenHours:    -1,
		FcstLenSchedule: []int{12, 48},
	}

	got, err := FcstLenHours(cy, cycleAt(12))
	assert.NoError(t, err)
	assert.Equal(t, 48, got)

	_, err = FcstLenHours(cy, cycleAt(0))
	assert.Error(t, err)
}

func TestFcstLenBadFirstHourToken(t *testing.T) {
	cy := conf.CyclesConf{
		IntervalHours:   6,
		FirstCycleHour:  "0x",
		FcstLenHours:    -1,
		FcstLenSchedule: []int{6},
	}

	_, err := FcstLenHours(cy, cycleAt(0))
	assert.Error(t, err)
}
