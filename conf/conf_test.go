package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagTokens(t *testing.T) {
	for _, token := range []string{"TRUE", "true", "YES", "yes"} {
		var f Flag
		require.NoError(t, f.UnmarshalText([]byte(token)), token)
		assert.True(t, f.Bool(), token)
	}

	for _, token := range []string{"FALSE", "false", "NO", "no"} {
		var f Flag
		require.NoError(t, f.UnmarshalText([]byte(token)), token)
		assert.False(t, f.Bool(), token)
	}

	for _, token := range []string{"True", "1", "on", "enabled", ""} {
		var f Flag
		assert.Error(t, f.UnmarshalText([]byte(token)), token)
	}
}

func TestParseHour(t *testing.T) {
	// leading zeros must parse as decimal, not octal
	h, err := ParseHour("08")
	require.NoError(t, err)
	assert.Equal(t, 8, h)

	h, err = ParseHour("00")
	require.NoError(t, err)
	assert.Equal(t, 0, h)

	h, err = ParseHour("23")
	require.NoError(t, err)
	assert.Equal(t, 23, h)

	_, err = ParseHour("24")
	assert.Error(t, err)

	_, err = ParseHour("-1")
	assert.Error(t, err)

	_, err = ParseHour("6h")
	assert.Error(t, err)
}

func TestRunPhaseFromString(t *testing.T) {
	var p RunPhase

	require.NoError(t, p.FromString("stage"))
	assert.Equal(t, StagePhase, p)

	require.NoError(t, p.FromString("FCST"))
	assert.Equal(t, ForecastPhase, p)

	require.NoError(t, p.FromString("Post"))
	assert.Equal(t, PostPhase, p)

	require.NoError(t, p.FromString("ALL"))
	assert.Equal(t, AllPhases, p)

	assert.Error(t, p.FromString("WPS"))
}

func TestValidate(t *testing.T) {
	good := Configuration{
		Cycles: CyclesConf{
			IntervalHours:         6,
			FirstCycleHour:        "00",
			FcstLenHours:          -1,
			FcstLenSchedule:       []int{6, 72, 72, 6},
			BoundaryIntervalHours: 6,
		},
	}
	assert.NoError(t, Validate(&good))

	noInterval := good
	noInterval.Cycles.IntervalHours = 0
	assert.Error(t, Validate(&noInterval))

	badHour := good
	badHour.Cycles.FirstCycleHour = "99"
	assert.Error(t, Validate(&badHour))

	noSchedule := good
	noSchedule.Cycles.FcstLenSchedule = nil
	assert.Error(t, Validate(&noSchedule))

	scalarLen := noSchedule
	scalarLen.Cycles.FcstLenHours = 24
	assert.NoError(t, Validate(&scalarLen))
}

func TestLoadFixedFiles(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "fixed_files.yaml")

	require.NoError(t, os.WriteFile(table, []byte(`
files:
  - name: grid_spec.nc
    source: lam/C793_grid_spec.nc
    dest: INPUT
  - name: global_o3prdlos.f77
    source: am/global_o3prdlos.f77
  - name: PT_sources.nc
    source: emis/PT_sources.nc
    dest: INPUT
    optional: TRUE
`), 0644))

	got, err := LoadFixedFiles(table)
	require.NoError(t, err)
	require.Len(t, got.Files, 3)

	assert.Equal(t, "grid_spec.nc", got.Files[0].Name)
	assert.Equal(t, "INPUT", got.Files[0].Dest)
	assert.False(t, got.Files[0].Optional.Bool())

	assert.Equal(t, "", got.Files[1].Dest)
	assert.True(t, got.Files[2].Optional.Bool())
}

func TestLoadFixedFilesRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "fixed_files.yaml")

	require.NoError(t, os.WriteFile(table, []byte(`
files:
  - name: grid_spec.nc
    source: a.nc
  - name: grid_spec.nc
    source: b.nc
`), 0644))

	_, err := LoadFixedFiles(table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadFixedFilesRejectsIncomplete(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "fixed_files.yaml")

	require.NoError(t, os.WriteFile(table, []byte(`
files:
  - name: grid_spec.nc
`), 0644))

	_, err := LoadFixedFiles(table)
	assert.Error(t, err)
}

func TestLoadFixedFilesMissingTable(t *testing.T) {
	_, err := LoadFixedFiles(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvVarsToSlice(t *testing.T) {
	vars := EnvVars{"OMP_PLACES": "cores"}
	assert.Equal(t, []string{"OMP_PLACES=cores"}, vars.ToSlice())
}
