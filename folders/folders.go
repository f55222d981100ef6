package folders

import (
	"time"

	"github.com/meteocima/aqm-runner/conf"
	"github.com/meteocima/virtual-server/vpath"
)

// Root is the experiment root directory, set by runner.Init.
var Root vpath.VirtualPath

// Cfg mirrors the Folders section of the configuration.
var Cfg conf.FoldersConf

// CycleTimestamp is the canonical cycle timestamp layout (YYYYMMDDHH).
const CycleTimestamp = "2006010215"

// RestartStamp is the timestamp prefix layout of restart snapshot files.
const RestartStamp = "20060102.150405"

// WorkdirForCycle returns the working directory of one cycle.
// Ensemble members beyond the deterministic run (member 0) get
// their own suffixed directory.
func WorkdirForCycle(start time.Time, member int) vpath.VirtualPath {
	if member > 0 {
		return Root.Join("%s_mem%02d", start.Format(CycleTimestamp), member)
	}
	return Root.Join(start.Format(CycleTimestamp))
}

// InputDir is the INPUT subdirectory the model reads staged files from.
func InputDir(start time.Time, member int) vpath.VirtualPath {
	return WorkdirForCycle(start, member).Join("INPUT")
}

// RestartDir is the RESTART subdirectory the model writes snapshots to.
func RestartDir(start time.Time, member int) vpath.VirtualPath {
	return WorkdirForCycle(start, member).Join("RESTART")
}

// PostWorkDir is the scratch directory of the post/encoding step.
func PostWorkDir(start time.Time, member int) vpath.VirtualPath {
	return WorkdirForCycle(start, member).Join("post")
}

// ComDir is the published-output directory of one cycle.
func ComDir(start time.Time) vpath.VirtualPath {
	return Cfg.ComDir.Join(start.Format("20060102/15"))
}

// ICsDir contains the cold-start initial conditions of one cycle.
func ICsDir(start time.Time) vpath.VirtualPath {
	return Cfg.ICsArchive.Join(start.Format(CycleTimestamp))
}

// LBCFile is the lateral boundary condition file for one forecast-hour
// offset of one cycle.
func LBCFile(start time.Time, offsetHours int) vpath.VirtualPath {
	return Cfg.LBCsArchive.Join("%s/gfs_bndy.tile7.f%03d.nc", start.Format(CycleTimestamp), offsetHours)
}

// SmokeFile is the cycle-stamped smoke/dust emission file.
func SmokeFile(start time.Time) vpath.VirtualPath {
	return Cfg.SmokeArchive.Join("SMOKE_RRFS_data_%s00.nc", start.Format(CycleTimestamp))
}
