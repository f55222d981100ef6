package folders

import (
	"testing"
	"time"

	"github.com/meteocima/aqm-runner/conf"
	"github.com/meteocima/virtual-server/vpath"
	"github.com/stretchr/testify/assert"
)

func TestCyclePaths(t *testing.T) {
	Root = vpath.Local("/exp")
	Cfg = conf.FoldersConf{
		ComDir:      vpath.Local("/com"),
		LBCsArchive: vpath.Local("/lbcs"),
		ICsArchive:  vpath.Local("/ics"),
	}

	cycle := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)

	assert.Equal(t, "/exp/2024010106", WorkdirForCycle(cycle, 0).Path)
	assert.Equal(t, "/exp/2024010106_mem02", WorkdirForCycle(cycle, 2).Path)
	assert.Equal(t, "/exp/2024010106/INPUT", InputDir(cycle, 0).Path)
	assert.Equal(t, "/exp/2024010106/RESTART", RestartDir(cycle, 0).Path)
	assert.Equal(t, "/exp/2024010106/post", PostWorkDir(cycle, 0).Path)

	assert.Equal(t, "/com/20240101/06", ComDir(cycle).Path)
	assert.Equal(t, "/ics/2024010106", ICsDir(cycle).Path)
	assert.Equal(t, "/lbcs/2024010106/gfs_bndy.tile7.f006.nc", LBCFile(cycle, 6).Path)
}
