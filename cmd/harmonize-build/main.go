// Command harmonize-build drives one build cycle of the mod pipeline from
// the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/harmonize-build/harmonize/config"
	"github.com/harmonize-build/harmonize/pipeline"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "Prints usage.")
	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		return 0
	}

	switch subCmd := flag.Arg(0); subCmd {
	case "build":
		return doBuild(flag.Args()[1:], stdOut, stdErr)
	default:
		fmt.Fprintln(stdErr, "invalid command:", subCmd)
		printUsage(stdErr)
		return 1
	}
}

func doBuild(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("build", flag.ContinueOnError)
	flags.SetOutput(stdErr)

	var cargoDir, watchDir, destDir, compiler string
	flags.StringVar(&cargoDir, "cargo-dir", ".", "Directory the external compiler is invoked from.")
	flags.StringVar(&watchDir, "watch-dir", "./mods", "Directory scanned for plug-in source files.")
	flags.StringVar(&destDir, "dest-dir", "./dist", "Directory finished artifacts are written to.")
	flags.StringVar(&compiler, "compiler", "cargo", "External compiler binary to invoke.")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	cfg := config.NewConfig().WithCargoDir(cargoDir).WithWatchDir(watchDir)

	log := logrus.NewEntry(logrus.StandardLogger())
	logrus.SetOutput(stdErr)

	driver := pipeline.New(cfg, compiler, destDir, log)
	results, err := driver.Run(context.Background())
	if err != nil {
		fmt.Fprintln(stdErr, "harmonize-build:", err)
		return 1
	}

	exit := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stdErr, "harmonize-build: %s: %v\n", r.Path, r.Err)
			exit = 1
			continue
		}
		fmt.Fprintf(stdOut, "harmonize-build: built %s\n", r.Path)
	}
	return exit
}

func printUsage(stdErr io.Writer) {
	fmt.Fprintln(stdErr, "harmonize-build - build and load pipeline for WebAssembly mods")
	fmt.Fprintln(stdErr, "\nUsage:")
	fmt.Fprintln(stdErr, "\tharmonize-build build [-cargo-dir dir] [-watch-dir dir] [-dest-dir dir] [-compiler bin]")
}
