package runner

import (
	"fmt"
	"time"

	"github.com/meteocima/aqm-runner/conf"
)

// FcstLenHours resolves the forecast length of one cycle.
//
// A scalar Cycles.FcstLenHours other than the -1 sentinel applies to
// every cycle. Otherwise the length comes from the per-cycle schedule,
// indexed by the cycle's position in the day:
//
//	index = (cycle hour - first cycle hour) / cycle interval
//
// An index outside the schedule is a configuration error.
func FcstLenHours(cy conf.CyclesConf, cycle time.Time) (int, error) {
	if cy.FcstLenHours != -1 {
		return cy.FcstLenHours, nil
	}

	firstHour, err := conf.ParseHour(cy.FirstCycleHour)
	if err != nil {
		return 0, err
	}

	idx := (cycle.Hour() - firstHour) / cy.IntervalHours
	if idx < 0 || idx >= len(cy.FcstLenSchedule) {
		return 0, fmt.Errorf(
			"cycle hour %02d resolves to schedule index %d, outside the %d-entry forecast length schedule",
			cycle.Hour(), idx, len(cy.FcstLenSchedule),
		)
	}

	return cy.FcstLenSchedule[idx], nil
}
