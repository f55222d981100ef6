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

// RunPost runs the post-processor and the grib2 re-encoding for every
// forecast hour of the cycle. Hours without model output are skipped
// silently, like in publishing.
func RunPost(vs *ctx.Context, cycle time.Time, member, fcstLen int) {
	if vs.Err != nil {
		return
	}

	if !conf.Config.Post.Enabled.Bool() {
		vs.LogInfo("post disabled, skipping cycle %s", cycle.Format(folders.CycleTimestamp))
		return
	}

	workdir := folders.WorkdirForCycle(cycle, member)
	postDir := folders.PostWorkDir(cycle, member)
	comDir := folders.ComDir(cycle)

	vs.MkDir(postDir)
	vs.MkDir(comDir)

	postPrg := conf.Config.Folders.PostPrg.Join("upp.x")

	tr := fsutil.Transaction{}
	tr.LinkAbs(postPrg.Path, postDir.Join("upp.x").Path)
	if tr.Err != nil {
		vs.Err = tr.Err
		return
	}

	for hour := 0; hour <= fcstLen; hour++ {
		dynFile := workdir.Join("dynf%03d.nc", hour)
		if !tr.Exists(dynFile.Path) {
			if tr.Err != nil {
				vs.Err = tr.Err
				return
			}
			continue
		}

		postHour(vs, cycle, member, hour, postDir, comDir)
		if vs.Err != nil {
			return
		}
	}
}

// postHour converts one forecast hour to grib2 and re-centers it on
// the output domain.
func postHour(vs *ctx.Context, cycle time.Time, member, hour int, postDir, comDir vpath.VirtualPath) {
	valid := cycle.Add(time.Duration(hour) * time.Hour)

	// the itag control file tells the post-processor which valid
	// time to read from the model history files
	conf.RenderNameList(vs, "itag", postDir.Join("itag"), namelist.Args{
		Start: valid,
		End:   valid,
	})

	vs.Exec(
		vpath.New(postDir.Host, "mpirun"),
		conf.MkMPIOptions("-n", conf.Config.Procs.PostProcCount, "./upp.x"),
		&connection.RunOptions{
			Cwd: postDir,
			Env: conf.Config.Env.ToSlice(),
		},
	)

	rawGrib := postDir.Join("AQFPRS.GrbF%02d", hour)
	pub := conf.Config.Publish

	memberPart := ""
	if member > 0 {
		memberPart = fmt.Sprintf(".mem%02d", member)
	}
	outGrib := comDir.Join("%s.t%02dz%s.cmaqf%03d.%s.grib2",
		pub.Net, cycle.Hour(), memberPart, hour, pub.DomainTag)

	args := []string{rawGrib.Path}
	args = append(args, conf.Config.Post.GridSpec...)
	args = append(args, outGrib.Path)

	vs.Exec(
		vpath.New(postDir.Host, "wgrib2"),
		args,
		&connection.RunOptions{
			Cwd: postDir,
			Env: conf.Config.Env.ToSlice(),
		},
	)
}
