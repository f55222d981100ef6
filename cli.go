package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meteocima/aqm-runner/conf"
	"github.com/meteocima/aqm-runner/runner"
	"github.com/parro-it/fileargs"

	"github.com/meteocima/virtual-server/vpath"
)

// Version of the command
var Version string = "development"

var log = logrus.New()

var (
	phaseF       string
	outArgsFileF string
)

var rootCmd = &cobra.Command{
	Use:   "aqm-runner",
	Short: "aqm-runner stages and runs cycles of a coupled FV3-CMAQ regional air quality forecast",
	Long: `aqm-runner executes forecast cycles of a regional FV3 model coupled
with Online-CMAQ chemistry: for every cycle it resolves the forecast
length, locates a restart snapshot to warm start from, stages the
working directory, renders the namelists, runs the model and publishes
the output products.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aqm-runner ver. %s\n", Version)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <workdir> [startdate enddate]",
	Short: "Run forecast cycles",
	Long: `Run executes forecast cycles inside a prepared working directory.

With startdate and enddate (format YYYYMMDDHH) a single cycle starting
at startdate runs with a forecast length of enddate minus startdate.
Without dates, an inputs/arguments.txt file is read that lists the
cycles to run; a zero duration there selects the length from the
configured forecast-length schedule.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var phase conf.RunPhase
		if err := phase.FromString(phaseF); err != nil {
			return err
		}

		absWd, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		wd := vpath.Local(absWd)

		var dates *fileargs.FileArguments
		if len(args) == 1 {
			dates, err = readInputArgs(wd)
		} else {
			dates, err = datesFromArgs(args, wd)
		}
		if err != nil {
			return err
		}

		if outArgsFileF != "" {
			if err := writeOutargs(outArgsFileF, dates); err != nil {
				return err
			}
		}

		cfgFile := vpath.Local(dates.CfgPath)

		if err := runner.Init(cfgFile, wd); err != nil {
			return err
		}

		return runner.Run(dates.Periods, wd, phase,
			log.WriterLevel(logrus.InfoLevel),
			log.WriterLevel(logrus.DebugLevel),
		)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean <workdir> <startdate>",
	Short: "Remove the working directory of one cycle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		absWd, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		wd := vpath.Local(absWd)

		startDate, err := time.Parse("2006010215", args[1])
		if err != nil {
			return err
		}

		if err := runner.Init(wd.Join("aqm-runner.cfg"), wd); err != nil {
			return err
		}

		return runner.RemoveRunFolder(startDate, wd,
			log.WriterLevel(logrus.InfoLevel),
			log.WriterLevel(logrus.DebugLevel),
		)
	},
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	runCmd.Flags().StringVarP(&phaseF, "phase", "p", "ALL", "phase to execute: STAGE, FCST, POST or ALL")
	runCmd.Flags().StringVar(&outArgsFileF, "outargs", "", "write an inputs/arguments.txt file listing the requested cycles")

	rootCmd.AddCommand(versionCmd, runCmd, cleanCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func datesFromArgs(args []string, wd vpath.VirtualPath) (*fileargs.FileArguments, error) {
	dates := &fileargs.FileArguments{
		Periods: []*fileargs.Period{},
		CfgPath: wd.Join("aqm-runner.cfg").Path,
	}

	startDate, err := time.Parse("2006010215", args[1])
	if err != nil {
		return nil, err
	}

	duration := time.Duration(0)
	if len(args) == 3 {
		endDate, err := time.Parse("2006010215", args[2])
		if err != nil {
			return nil, err
		}
		duration = endDate.Sub(startDate)
	}

	dates.Periods = append(dates.Periods, &fileargs.Period{
		Start:    startDate,
		Duration: duration,
	})

	return dates, nil
}

func readInputArgs(wd vpath.VirtualPath) (*fileargs.FileArguments, error) {
	dates, err := runner.ReadTimes("inputs/arguments.txt")
	if err != nil {
		return nil, err
	}

	dates.CfgPath = wd.Join(dates.CfgPath).Path
	return dates, nil
}

func writeOutargs(outargs string, dates *fileargs.FileArguments) error {
	_, err := os.Stat(outargs)
	fileargsExists := err == nil

	var buf lineBuf
	if !fileargsExists {
		buf.AddLine("aqm-runner.cfg")
	}

	for _, p := range dates.Periods {
		buf.AddLine(p.String())
	}

	if fileargsExists {
		return buf.AppendTo(outargs)
	}
	return buf.WriteTo(outargs)
}

type lineBuf struct {
	buf bytes.Buffer
}

func (lines *lineBuf) AddLine(lineFormat string, arguments ...interface{}) {
	line := fmt.Sprintf(lineFormat, arguments...)
	lines.buf.WriteString(line)
	lines.buf.WriteRune('\n')
}

func (lines *lineBuf) WriteTo(filepath string) error {
	f, err := os.OpenFile(filepath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fs.FileMode(0644))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(lines.buf.Bytes())
	lines.buf.Truncate(0)

	return err
}

func (lines *lineBuf) AppendTo(filepath string) error {
	f, err := os.OpenFile(filepath, os.O_APPEND|os.O_WRONLY, fs.FileMode(0644))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(lines.buf.Bytes())
	lines.buf.Truncate(0)

	return err
}
