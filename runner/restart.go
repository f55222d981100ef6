package runner

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/meteocima/aqm-runner/folders"
	"github.com/meteocima/aqm-runner/fsutil"
)

// restartFileIDs is the fixed set of files a restart snapshot consists
// of. A snapshot missing any of them is partial and must be skipped.
var restartFileIDs = []string{
	"coupler.res",
	"fv_core.res.nc",
	"fv_srf_wnd.res.nc",
	"fv_tracer.res.nc",
	"sfc_data.nc",
	"phy_data.nc",
}

// Snapshot identifies one complete restart snapshot found on disk.
type Snapshot struct {
	// Dir is the RESTART directory containing the snapshot files.
	Dir string

	// Valid is the model time the snapshot state is valid at.
	Valid time.Time

	// OffsetHours is how many hours before the requested cycle
	// the snapshot is valid.
	OffsetHours int
}

// Files returns the stamped file name and the name the model expects
// under INPUT, for every file of the snapshot.
func (s *Snapshot) Files() map[string]string {
	stamp := s.Valid.Format(folders.RestartStamp)
	files := make(map[string]string, len(restartFileIDs))
	for _, id := range restartFileIDs {
		files[stamp+"."+id] = id
	}
	return files
}

// LocateRestart scans restartDir for the newest complete snapshot valid
// at or before the cycle time. Candidate offsets are scanned in
// ascending order, so the snapshot closest to the cycle wins. The
// second return value is false when no candidate is complete, which
// callers treat as a cold start.
func LocateRestart(restartDir string, cycle time.Time, offsetsHours []int) (*Snapshot, bool) {
	offsets := append([]int(nil), offsetsHours...)
	sort.Ints(offsets)

	for _, off := range offsets {
		if off < 0 {
			continue
		}
		valid := cycle.Add(-time.Duration(off) * time.Hour)
		if snapshotComplete(restartDir, valid) {
			return &Snapshot{
				Dir:         restartDir,
				Valid:       valid,
				OffsetHours: off,
			}, true
		}
	}

	return nil, false
}

func snapshotComplete(restartDir string, valid time.Time) bool {
	stamp := valid.Format(folders.RestartStamp)
	tr := fsutil.Transaction{}
	for _, id := range restartFileIDs {
		if !tr.Exists(filepath.Join(restartDir, stamp+"."+id)) {
			return false
		}
	}
	return tr.Err == nil
}
