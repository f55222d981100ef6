package runner

import (
	"fmt"
	"time"

	"github.com/meteocima/virtual-server/connection"
	"github.com/meteocima/virtual-server/ctx"
	"github.com/meteocima/virtual-server/vpath"

	"github.com/meteocima/aqm-runner/conf"
	"github.com/meteocima/aqm-runner/folders"
	"github.com/meteocima/aqm-runner/fsutil"
)

// productKinds are the per-hour model output streams that get
// published.
var productKinds = []string{"dyn", "phy"}

// ProductName builds the canonical published name of one output file:
// network id, cycle hour, optional ensemble member, product kind,
// zero-padded forecast hour and domain tag.
func ProductName(net string, cycle time.Time, member int, kind string, hour int, domain string) string {
	memberPart := ""
	if member > 0 {
		memberPart = fmt.Sprintf(".mem%02d", member)
	}
	return fmt.Sprintf("%s.t%02dz%s.%sf%03d.%s.nc", net, cycle.Hour(), memberPart, kind, hour, domain)
}

// AliasName is the short-form name linked to the canonical product
// outside centralized-operations mode.
func AliasName(net string, member int, kind string, hour int, domain string) string {
	memberPart := ""
	if member > 0 {
		memberPart = fmt.Sprintf(".mem%02d", member)
	}
	return fmt.Sprintf("%s%s.%sf%03d.%s.nc", net, memberPart, kind, hour, domain)
}

// PublishOutputs moves every produced output file of the cycle to its
// published name under the COM directory. Hours the model did not
// write are skipped silently: sub-hourly or restart-only output
// configurations legitimately omit hours.
func PublishOutputs(vs *ctx.Context, cycle time.Time, member, fcstLen int) {
	if vs.Err != nil {
		return
	}

	workdir := folders.WorkdirForCycle(cycle, member)
	comDir := folders.ComDir(cycle)
	pub := conf.Config.Publish

	vs.MkDir(comDir)
	if vs.Err != nil {
		return
	}

	tr := fsutil.Transaction{}
	published := 0

	for hour := 0; hour <= fcstLen; hour++ {
		for _, kind := range productKinds {
			src := workdir.Join("%sf%03d.nc", kind, hour)
			if !tr.Exists(src.Path) {
				if tr.Err != nil {
					vs.Err = tr.Err
					return
				}
				continue
			}

			canonical := comDir.Join(ProductName(pub.Net, cycle, member, kind, hour, pub.DomainTag))
			tr.Rename(src.Path, canonical.Path)

			if !pub.CentralizedOps.Bool() {
				alias := comDir.Join(AliasName(pub.Net, member, kind, hour, pub.DomainTag))
				tr.LinkRel(canonical.Path, alias.Path)
			}

			if tr.Err != nil {
				vs.Err = tr.Err
				return
			}

			published++
			notify(vs, canonical)
			if vs.Err != nil {
				return
			}
		}
	}

	vs.LogInfo("published %d products for cycle %s to `%s`",
		published, cycle.Format(folders.CycleTimestamp), comDir.String())
}

// notify triggers the downstream distribution system for one published
// file, when a notification command is configured.
func notify(vs *ctx.Context, file vpath.VirtualPath) {
	if vs.Err != nil || conf.Config.Publish.NotifyCmd == "" {
		return
	}

	vs.Exec(
		vpath.New(file.Host, conf.Config.Publish.NotifyCmd),
		[]string{file.Path},
		&connection.RunOptions{
			Env: conf.Config.Env.ToSlice(),
		},
	)
}
