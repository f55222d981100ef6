package conf

// This module contains data structures
// used to keep configuration variables
// for the command.

import (
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/meteocima/namelist-prepare/namelist"
	"github.com/meteocima/virtual-server/ctx"
	"github.com/meteocima/virtual-server/vpath"
)

// FoldersConf contains path of all
// files and directories somehow needed by the command
type FoldersConf struct {
	// FixDir is the root of the static, cycle-independent reference
	// datasets (climatology, orography, land use).
	FixDir vpath.VirtualPath

	// ICsArchive contains cold-start initial condition files,
	// one subdirectory per cycle.
	ICsArchive vpath.VirtualPath

	// LBCsArchive contains lateral boundary condition files,
	// one subdirectory per cycle.
	LBCsArchive vpath.VirtualPath

	// SmokeArchive contains cycle-stamped smoke/dust emission files.
	SmokeArchive vpath.VirtualPath

	// ModelPrg is the build directory of the coupled forecast model.
	ModelPrg vpath.VirtualPath

	// PostPrg is the build directory of the post-processor.
	PostPrg vpath.VirtualPath

	// NamelistsDir contains the namelist and configure templates.
	NamelistsDir vpath.VirtualPath

	// ComDir is the root of the published output tree.
	ComDir vpath.VirtualPath

	// FixedFilesTable is the YAML table of fixed-file mappings.
	FixedFilesTable vpath.VirtualPath
}

// CyclesConf describes the cycle cadence and the per-cycle
// forecast length schedule.
type CyclesConf struct {
	// IntervalHours is the cadence between two cycles.
	IntervalHours int

	// FirstCycleHour is the hour of day of the first daily cycle,
	// as a zero-padded token ("00").
	FirstCycleHour string

	// FcstLenHours is the forecast length when every cycle runs the
	// same length. The sentinel -1 selects FcstLenSchedule instead.
	FcstLenHours int

	// FcstLenSchedule gives one length per daily cycle index.
	FcstLenSchedule []int

	// BoundaryIntervalHours is the update interval of the lateral
	// boundary condition files.
	BoundaryIntervalHours int

	// RestartOffsetsHours are the candidate restart offsets, in hours
	// before the cycle time.
	RestartOffsetsHours []int

	// WarmStartRequired makes a missing restart snapshot fatal
	// instead of falling back to a cold start.
	WarmStartRequired Flag

	// Members is the ensemble size. Zero or one runs a single
	// deterministic member.
	Members int
}

// StagingConf ...
type StagingConf struct {
	// UseCopy stages real copies instead of symbolic links.
	UseCopy Flag

	// DummySmokeFile substitutes a missing cycle-stamped
	// smoke/dust emission file.
	DummySmokeFile vpath.VirtualPath
}

// PostConf configures the per-hour post/encoding step.
type PostConf struct {
	Enabled Flag

	// GridSpec are the wgrib2 -new_grid arguments used to re-center
	// the output domain.
	GridSpec []string
}

// PublishConf configures output product naming and distribution.
type PublishConf struct {
	// Net is the network id prefixed to every product name.
	Net string

	// DomainTag identifies the model domain in product names.
	DomainTag string

	// CentralizedOps suppresses the short-form alias links.
	CentralizedOps Flag

	// NotifyCmd, when not empty, is invoked with each published file.
	NotifyCmd string
}

// ProcsConf ...
type ProcsConf struct {
	// ModelProcCount ...
	ModelProcCount string

	// PostProcCount ...
	PostProcCount string

	// OmpThreadCount ...
	OmpThreadCount string
}

// MPIConf contains additional options
// to use in mpirun calls.
// You can use MkMPIOptions function to build
// an array of command arguments in a practical way.
type MPIConf struct {
	AdditionalOptions []string
}

// EnvVars ...
type EnvVars map[string]string

// ToSlice converts variables to a slice of string, each one
// in the format NAME=VALUE
func (vars EnvVars) ToSlice() []string {
	res := make([]string, len(vars))
	i := 0
	for name, val := range vars {
		res[i] = fmt.Sprintf("%s=%s", name, val)
		i++
	}
	return res
}

// Configuration contains all configuration
// sub structures
type Configuration struct {
	Folders FoldersConf
	Cycles  CyclesConf
	Staging StagingConf
	Post    PostConf
	Publish PublishConf
	Procs   ProcsConf
	MPI     MPIConf
	Env     EnvVars
}

// MkMPIOptions build an array of command arguments
// merging given options with `AdditionalOptions` as read
// from configuration file.
func MkMPIOptions(options ...string) []string {
	var res []string
	res = append(res, Config.MPI.AdditionalOptions...)
	res = append(res, options...)
	return res
}

// Config is the runtime configuration readed from file.
var Config Configuration

// Init initializes the system by reading configuration
// from `confPath` file.
func Init(confFile vpath.VirtualPath) error {
	_, err := toml.DecodeFile(confFile.Path, &Config)
	if err != nil {
		return err
	}

	confDir := confFile.Dir()

	relatives := []*vpath.VirtualPath{
		&Config.Folders.FixDir,
		&Config.Folders.ICsArchive,
		&Config.Folders.LBCsArchive,
		&Config.Folders.SmokeArchive,
		&Config.Folders.ModelPrg,
		&Config.Folders.PostPrg,
		&Config.Folders.NamelistsDir,
		&Config.Folders.ComDir,
		&Config.Folders.FixedFilesTable,
		&Config.Staging.DummySmokeFile,
	}

	for _, p := range relatives {
		if p.Path != "" && !path.IsAbs(p.Path) {
			*p = confDir.JoinP(*p)
		}
	}

	return Validate(&Config)
}

// Validate checks the configuration invariants that cannot
// wait until the failing step.
func Validate(cfg *Configuration) error {
	if cfg.Cycles.IntervalHours <= 0 {
		return fmt.Errorf("Cycles.IntervalHours must be positive, got %d", cfg.Cycles.IntervalHours)
	}

	if cfg.Cycles.BoundaryIntervalHours <= 0 {
		return fmt.Errorf("Cycles.BoundaryIntervalHours must be positive, got %d", cfg.Cycles.BoundaryIntervalHours)
	}

	if _, err := ParseHour(cfg.Cycles.FirstCycleHour); err != nil {
		return fmt.Errorf("Cycles.FirstCycleHour: %w", err)
	}

	if cfg.Cycles.FcstLenHours == -1 && len(cfg.Cycles.FcstLenSchedule) == 0 {
		return fmt.Errorf("Cycles.FcstLenSchedule must be set when FcstLenHours is -1")
	}

	return nil
}

// NamelistFile ...
func NamelistFile(source string) vpath.VirtualPath {
	return Config.Folders.NamelistsDir.Join(source)
}

// RenderNameList ...
func RenderNameList(vs *ctx.Context, source string, target vpath.VirtualPath, args namelist.Args) {
	if vs.Err != nil {
		return
	}

	tmplFile := vs.ReadString(NamelistFile(source))

	tmpl := namelist.Tmpl{}
	tmpl.ReadTemplateFrom(strings.NewReader(tmplFile))

	var rendered strings.Builder
	tmpl.RenderTo(args, &rendered)
	vs.WriteString(target, rendered.String())
}
