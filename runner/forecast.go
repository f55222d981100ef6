package runner

import (
	"fmt"
	"time"

	"github.com/meteocima/namelist-prepare/namelist"
	"github.com/meteocima/virtual-server/connection"
	"github.com/meteocima/virtual-server/ctx"
	"github.com/meteocima/virtual-server/vpath"

	"github.com/meteocima/aqm-runner/conf"
	"github.com/meteocima/aqm-runner/folders"
	"github.com/meteocima/aqm-runner/fsutil"
)

// BuildForecastDir stages the working directory of one cycle: fixed
// files, lateral boundary files, warm or cold start inputs, the
// smoke/dust emission file and the rendered namelists. snap is nil for
// a cold start.
func BuildForecastDir(vs *ctx.Context, cycle time.Time, member, fcstLen int, snap *Snapshot) {
	if vs.Err != nil {
		return
	}

	workdir := folders.WorkdirForCycle(cycle, member)
	inputDir := folders.InputDir(cycle, member)

	vs.LogInfo("build forecast work dir `%s`", workdir.String())

	vs.MkDir(workdir)
	vs.MkDir(inputDir)
	vs.MkDir(folders.RestartDir(cycle, member))

	plan := fixedFilesPlan(vs, workdir)
	plan = append(plan, boundaryPlan(vs, cycle, fcstLen, inputDir)...)

	if snap != nil {
		plan = append(plan, warmStartPlan(snap, inputDir)...)
	} else {
		plan = append(plan, coldStartPlan(cycle, inputDir)...)
	}

	plan = append(plan, StageEntry{
		Dest:   workdir.Join("ufs_model").Path,
		Source: conf.Config.Folders.ModelPrg.Join("ufs_model").Path,
		Kind:   KindFor(conf.Config.Folders.ModelPrg.Path, folders.Root.Path),
	})

	Stage(vs, plan, conf.Config.Staging.UseCopy.Bool())

	stageSmoke(vs, cycle, inputDir)

	end := cycle.Add(time.Duration(fcstLen) * time.Hour)
	args := namelist.Args{
		Start: cycle,
		End:   end,
	}

	inputNml := "input.nml.cold"
	if snap != nil {
		inputNml = "input.nml.warm"
	}

	conf.RenderNameList(vs, inputNml, workdir.Join("input.nml"), args)
	conf.RenderNameList(vs, "model_configure", workdir.Join("model_configure"), args)
	conf.RenderNameList(vs, "aqm.rc", workdir.Join("aqm.rc"), args)
}

// fixedFilesPlan stages the static cycle-independent datasets listed
// in the YAML fixed-file table.
func fixedFilesPlan(vs *ctx.Context, workdir vpath.VirtualPath) []StageEntry {
	if vs.Err != nil {
		return nil
	}

	table, err := conf.LoadFixedFiles(conf.Config.Folders.FixedFilesTable.Path)
	if err != nil {
		vs.Err = err
		return nil
	}

	var plan []StageEntry
	for _, f := range table.Files {
		dest := workdir
		if f.Dest != "" {
			dest = workdir.Join(f.Dest)
		}
		source := conf.Config.Folders.FixDir.Join(f.Source)
		plan = append(plan, StageEntry{
			Dest:     dest.Join(f.Name).Path,
			Source:   source.Path,
			Kind:     KindFor(source.Path, folders.Root.Path),
			Optional: f.Optional.Bool(),
		})
	}
	return plan
}

// boundaryPlan stages one lateral boundary file per boundary-interval
// offset up to the forecast length. Every file is required.
func boundaryPlan(vs *ctx.Context, cycle time.Time, fcstLen int, inputDir vpath.VirtualPath) []StageEntry {
	if vs.Err != nil {
		return nil
	}

	offsets, err := BoundaryOffsets(fcstLen, conf.Config.Cycles.BoundaryIntervalHours)
	if err != nil {
		vs.Err = err
		return nil
	}

	var plan []StageEntry
	for _, off := range offsets {
		source := folders.LBCFile(cycle, off)
		plan = append(plan, StageEntry{
			Dest:   inputDir.Join("gfs_bndy.tile7.f%03d.nc", off).Path,
			Source: source.Path,
			Kind:   KindFor(source.Path, folders.Root.Path),
		})
	}
	return plan
}

// warmStartPlan links every snapshot file to the unstamped name the
// model expects under INPUT.
func warmStartPlan(snap *Snapshot, inputDir vpath.VirtualPath) []StageEntry {
	var plan []StageEntry
	for stamped, name := range snap.Files() {
		source := snap.Dir + "/" + stamped
		plan = append(plan, StageEntry{
			Dest:   inputDir.Join(name).Path,
			Source: source,
			Kind:   KindFor(source, folders.Root.Path),
		})
	}
	return plan
}

// coldStartPlan links the external analysis files the model
// initializes from when no restart snapshot is available.
func coldStartPlan(cycle time.Time, inputDir vpath.VirtualPath) []StageEntry {
	icsDir := folders.ICsDir(cycle)

	var plan []StageEntry
	for _, name := range []string{"gfs_data.tile7.nc", "sfc_data.tile7.nc", "gfs_ctrl.nc"} {
		source := icsDir.Join(name)
		plan = append(plan, StageEntry{
			Dest:   inputDir.Join(name).Path,
			Source: source.Path,
			Kind:   KindFor(source.Path, folders.Root.Path),
		})
	}
	return plan
}

// stageSmoke links the cycle-stamped smoke/dust emission file, falling
// back to the configured dummy placeholder when the cycle has none.
// The fallback is logged but never fatal.
func stageSmoke(vs *ctx.Context, cycle time.Time, inputDir vpath.VirtualPath) {
	if vs.Err != nil {
		return
	}

	source := folders.SmokeFile(cycle)

	tr := fsutil.Transaction{}
	if !tr.Exists(source.Path) && tr.Err == nil {
		vs.LogInfo("WARNING: smoke/dust file `%s` not found, staging dummy placeholder", source.String())
		source = conf.Config.Staging.DummySmokeFile
	}
	if tr.Err != nil {
		vs.Err = tr.Err
		return
	}

	Stage(vs, []StageEntry{{
		Dest:   inputDir.Join("SMOKE_RRFS_data.nc").Path,
		Source: source.Path,
		Kind:   KindFor(source.Path, folders.Root.Path),
	}}, conf.Config.Staging.UseCopy.Bool())
}

// RunForecast invokes the coupled forecast executable in the staged
// working directory and waits for completion. A non-zero exit status
// aborts the cycle; retries belong to the external workflow manager.
func RunForecast(vs *ctx.Context, cycle time.Time, member int) {
	if vs.Err != nil {
		return
	}

	workdir := folders.WorkdirForCycle(cycle, member)

	vs.LogInfo("run forecast for cycle %s", cycle.Format(folders.CycleTimestamp))

	env := append(
		conf.Config.Env.ToSlice(),
		fmt.Sprintf("OMP_NUM_THREADS=%s", conf.Config.Procs.OmpThreadCount),
		"OMP_STACKSIZE=1024m",
	)

	vs.Exec(
		vpath.New(workdir.Host, "mpirun"),
		conf.MkMPIOptions("-n", conf.Config.Procs.ModelProcCount, "./ufs_model"),
		&connection.RunOptions{
			Cwd: workdir,
			Env: env,
		},
	)
}
