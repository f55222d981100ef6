// Package tasks wraps single cycle steps as virtual-server tasks, so
// an external workflow manager can schedule them with their own
// dependencies and retry policies.
package tasks

import (
	"fmt"
	"time"

	"github.com/meteocima/virtual-server/ctx"
	vstasks "github.com/meteocima/virtual-server/tasks"

	"github.com/meteocima/aqm-runner/folders"
	"github.com/meteocima/aqm-runner/runner"
)

// NewCycleTask stages and runs the forecast of one cycle.
func NewCycleTask(startDate time.Time, member int) *vstasks.Task {
	dtPart := startDate.Format(folders.CycleTimestamp)

	tskID := fmt.Sprintf("FCST-%s", dtPart)
	if member > 0 {
		tskID = fmt.Sprintf("FCST-%s-mem%02d", dtPart, member)
	}

	tsk := vstasks.New(tskID, func(vs *ctx.Context) error {
		runner.RunStep(vs, startDate, member, runner.StageStep)
		runner.RunStep(vs, startDate, member, runner.ForecastStep)
		return vs.Err
	})
	tsk.Description = fmt.Sprintf("Coupled forecast for cycle %s", dtPart)
	return tsk
}

// NewPostTask post-processes and publishes one already-run cycle.
func NewPostTask(startDate time.Time, member int) *vstasks.Task {
	dtPart := startDate.Format(folders.CycleTimestamp)

	tskID := fmt.Sprintf("POST-%s", dtPart)
	if member > 0 {
		tskID = fmt.Sprintf("POST-%s-mem%02d", dtPart, member)
	}

	tsk := vstasks.New(tskID, func(vs *ctx.Context) error {
		runner.RunStep(vs, startDate, member, runner.PostStep)
		runner.RunStep(vs, startDate, member, runner.PublishStep)
		return vs.Err
	})
	tsk.Description = fmt.Sprintf("Post-processing and publishing for cycle %s", dtPart)
	return tsk
}
