package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runMain(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"harmonize-build"}, args...)
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}
	exitCode := doMain(stdOut, stdErr)
	return exitCode, stdOut.String(), stdErr.String()
}

func TestHelp(t *testing.T) {
	exitCode, _, stdErr := runMain(t, []string{"-h"})
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdErr, "harmonize-build - build and load pipeline")
}

func TestNoArgsPrintsUsage(t *testing.T) {
	exitCode, _, stdErr := runMain(t, nil)
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdErr, "Usage:")
}

func TestInvalidSubcommand(t *testing.T) {
	exitCode, _, stdErr := runMain(t, []string{"bogus"})
	require.Equal(t, 1, exitCode)
	require.Contains(t, stdErr, "invalid command: bogus")
}

func TestBuild_MissingWatchDirReportsError(t *testing.T) {
	exitCode, _, stdErr := runMain(t, []string{"build", "-watch-dir", filepath.Join(t.TempDir(), "missing")})
	require.Equal(t, 1, exitCode)
	require.Contains(t, stdErr, "harmonize-build:")
}
