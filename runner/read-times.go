package runner

import (
	"os"

	"github.com/parro-it/fileargs"
)

// ReadTimes reads an arguments file listing the cycles to run: the
// configuration file name on the first line, then one cycle per line
// as start timestamp and forecast length in hours. The file path is
// resolved against the current directory.
func ReadTimes(file string) (*fileargs.FileArguments, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	fsys := os.DirFS(cwd)
	return fileargs.ReadFile(fsys, file)
}
