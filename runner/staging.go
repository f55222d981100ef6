package runner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meteocima/aqm-runner/fsutil"
	"github.com/meteocima/virtual-server/ctx"
)

// LinkKind selects how a staged link is expressed.
type LinkKind int

const (
	// Absolute links point to sources outside the experiment tree
	// (shared read-only reference data).
	Absolute LinkKind = iota
	// Relative links keep the experiment tree relocatable and are
	// used when the source lives inside it.
	Relative
)

// StageEntry is one row of a staging plan: a logical input name and
// where its content comes from.
type StageEntry struct {
	// Dest is the link path inside the working directory.
	Dest string

	// Source is the file the link points at.
	Source string

	// Kind ...
	Kind LinkKind

	// Optional entries are skipped silently when the source is
	// absent; required entries fail the stage.
	Optional bool
}

// KindFor returns Relative when source lives under the experiment
// root, Absolute otherwise.
func KindFor(source, exptRoot string) LinkKind {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return Absolute
	}
	absRoot, err := filepath.Abs(exptRoot)
	if err != nil {
		return Absolute
	}
	if absSource == absRoot || strings.HasPrefix(absSource, absRoot+string(filepath.Separator)) {
		return Relative
	}
	return Absolute
}

// Stage materializes a staging plan. Links replace whatever is already
// at their destination, so staging the same cycle twice converges to
// the same set of links. With useCopy the plan is materialized as
// copies instead.
func Stage(vs *ctx.Context, entries []StageEntry, useCopy bool) {
	if vs.Err != nil {
		return
	}
	vs.Err = Materialize(entries, useCopy)
}

// Materialize is the staging engine behind Stage: it links (or copies)
// every entry of the plan into place. A required entry with a missing
// source fails the whole stage; optional entries are skipped.
func Materialize(entries []StageEntry, useCopy bool) error {
	tr := fsutil.Transaction{}

	for _, e := range entries {
		if !tr.Exists(e.Source) {
			if tr.Err != nil {
				break
			}
			if e.Optional {
				continue
			}
			tr.Err = fmt.Errorf("required input `%s` not found at `%s`", filepath.Base(e.Dest), e.Source)
			break
		}

		if useCopy {
			tr.Copy(e.Source, e.Dest)
		} else if e.Kind == Relative {
			tr.LinkRel(e.Source, e.Dest)
		} else {
			tr.LinkAbs(e.Source, e.Dest)
		}

		if tr.Err != nil {
			break
		}
	}

	return tr.Err
}

// BoundaryOffsets enumerates the forecast-hour offsets of the lateral
// boundary files: 0 to fcstLen inclusive at intervalHours steps. When
// fcstLen is not a multiple of the interval the last offset is the
// largest multiple below it.
func BoundaryOffsets(fcstLen, intervalHours int) ([]int, error) {
	if intervalHours <= 0 {
		return nil, fmt.Errorf("boundary interval must be positive, got %d", intervalHours)
	}
	if fcstLen < 0 {
		return nil, fmt.Errorf("forecast length must not be negative, got %d", fcstLen)
	}

	var offsets []int
	for off := 0; off <= fcstLen; off += intervalHours {
		offsets = append(offsets, off)
	}
	return offsets, nil
}
