package runner

import (
	"fmt"
	"io"
	"os"
	"time"

	vsConfig "github.com/meteocima/virtual-server/config"
	"github.com/meteocima/virtual-server/ctx"
	"github.com/meteocima/virtual-server/vpath"
	"github.com/parro-it/fileargs"

	"github.com/meteocima/aqm-runner/conf"
	"github.com/meteocima/aqm-runner/folders"
)

// Init ...
func Init(cfgFile, workdir vpath.VirtualPath) error {
	folders.Root = workdir

	err := vsConfig.Init(cfgFile.Path)
	if err != nil {
		return err
	}

	err = conf.Init(cfgFile)
	if err != nil {
		return err
	}

	folders.Cfg = conf.Config.Folders
	return nil
}

// RemoveRunFolder ...
func RemoveRunFolder(startDate time.Time, workdir vpath.VirtualPath, logWriter io.Writer, detailLogWriter io.Writer) error {
	vs := ctx.New(os.Stdin, logWriter, detailLogWriter)

	for _, member := range members() {
		cycleDir := folders.WorkdirForCycle(startDate, member)
		if vs.Exists(cycleDir) {
			vs.RmDir(cycleDir)
		}
	}

	return vs.Err
}

// Run executes the requested phase of every cycle in periods, in
// order. The first failing step aborts its cycle and the whole run.
func Run(periods []*fileargs.Period, workdir vpath.VirtualPath, phase conf.RunPhase,
	logWriter io.Writer, detailLogWriter io.Writer,
) error {
	vs := ctx.New(os.Stdin, logWriter, detailLogWriter)

	if !vs.Exists(workdir) {
		return fmt.Errorf("directory not found: %s", workdir.String())
	}

	for _, period := range periods {
		cycle := period.Start

		fcstLen, err := cycleLen(period)
		if err != nil {
			return err
		}

		vs.LogInfo("STARTING CYCLE %s, forecast length %d hours", cycle.Format(folders.CycleTimestamp), fcstLen)

		for _, member := range members() {
			runCycle(vs, cycle, member, fcstLen, phase)
		}

		if vs.Err != nil {
			return vs.Err
		}
		vs.LogInfo("CYCLE %s COMPLETED", cycle.Format(folders.CycleTimestamp))
	}

	return vs.Err
}

// cycleLen resolves the forecast length of one requested period. An
// explicit non-zero duration on the command line or in the arguments
// file overrides the configured schedule.
func cycleLen(period *fileargs.Period) (int, error) {
	if period.Duration > 0 {
		return int(period.Duration.Hours()), nil
	}
	return FcstLenHours(conf.Config.Cycles, period.Start)
}

func members() []int {
	n := conf.Config.Cycles.Members
	if n <= 1 {
		return []int{0}
	}
	res := make([]int, n)
	for i := range res {
		res[i] = i + 1
	}
	return res
}

func runCycle(vs *ctx.Context, cycle time.Time, member, fcstLen int, phase conf.RunPhase) {
	if vs.Err != nil {
		return
	}

	snap := findRestart(vs, cycle, member)
	if vs.Err != nil {
		return
	}

	if phase != conf.PostPhase {
		BuildForecastDir(vs, cycle, member, fcstLen, snap)
	}

	if phase == conf.ForecastPhase || phase == conf.AllPhases {
		RunForecast(vs, cycle, member)
	}

	if phase == conf.PostPhase || phase == conf.AllPhases {
		RunPost(vs, cycle, member, fcstLen)
		PublishOutputs(vs, cycle, member, fcstLen)
	}
}

// StepType ...
type StepType int

const (
	// StageStep ...
	StageStep StepType = iota
	// ForecastStep ...
	ForecastStep
	// PostStep ...
	PostStep
	// PublishStep ...
	PublishStep
)

// RunSingleStep executes one step of one cycle, for embedding in an
// external workflow manager that drives steps separately.
func RunSingleStep(startDate time.Time, member int, stepType StepType, logWriter io.Writer, detailLogWriter io.Writer) error {
	vs := ctx.New(os.Stdin, logWriter, detailLogWriter)
	RunStep(vs, startDate, member, stepType)
	return vs.Err
}

// RunStep is RunSingleStep on a caller-provided context, for task
// wrappers that already own one.
func RunStep(vs *ctx.Context, startDate time.Time, member int, stepType StepType) {
	if vs.Err != nil {
		return
	}

	fcstLen, err := FcstLenHours(conf.Config.Cycles, startDate)
	if err != nil {
		vs.Err = err
		return
	}

	switch stepType {
	case StageStep:
		snap := findRestart(vs, startDate, member)
		BuildForecastDir(vs, startDate, member, fcstLen, snap)

	case ForecastStep:
		RunForecast(vs, startDate, member)

	case PostStep:
		RunPost(vs, startDate, member, fcstLen)

	case PublishStep:
		PublishOutputs(vs, startDate, member, fcstLen)

	default:
		panic("unknown step type")
	}
}

// findRestart locates the warm-start snapshot in the previous cycle's
// RESTART directory. No complete snapshot means a cold start, unless
// the configuration requires a warm start.
func findRestart(vs *ctx.Context, cycle time.Time, member int) *Snapshot {
	cy := conf.Config.Cycles

	prevCycle := cycle.Add(-time.Duration(cy.IntervalHours) * time.Hour)
	restartDir := folders.RestartDir(prevCycle, member).Path

	snap, found := LocateRestart(restartDir, cycle, cy.RestartOffsetsHours)
	if !found {
		if cy.WarmStartRequired.Bool() {
			vs.Err = fmt.Errorf(
				"no complete restart snapshot under `%s` for cycle %s, and warm start is required",
				restartDir, cycle.Format(folders.CycleTimestamp),
			)
			return nil
		}
		vs.LogInfo("no restart snapshot for cycle %s, cold start", cycle.Format(folders.CycleTimestamp))
		return nil
	}

	vs.LogInfo("warm start for cycle %s from snapshot valid at %s",
		cycle.Format(folders.CycleTimestamp), snap.Valid.Format(folders.RestartStamp))
	return snap
}
