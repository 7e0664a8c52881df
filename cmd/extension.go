package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/gbce/config"
)

// Environment variables passed to extensions. They are also read as defaults
// for the global flags.
const (
	EnvConfig     = config.EnvPrefix + "_CONFIG"
	EnvTradesFile = config.EnvPrefix + "_TRADES_FILE"
	EnvVerbose    = config.EnvPrefix + "_VERBOSE"
	EnvTestingNow = config.EnvPrefix + "_TESTING_NOW"
	EnvPlain      = config.EnvPrefix + "_PLAIN"
)

// extensionEnv returns the environment of an extension: the current one,
// overridden by the resolved global flags.
func extensionEnv() ([]string, error) {
	env, err := settings()
	if err != nil {
		return nil, err
	}
	return append(os.Environ(),
		EnvConfig+"="+env.Config,
		EnvTradesFile+"="+env.TradesFile,
		EnvVerbose+"="+strconv.FormatBool(env.Verbose),
		EnvTestingNow+"="+env.TestingNow,
		EnvPlain+"="+strconv.FormatBool(env.Plain),
	), nil
}

// RunExtension attempts to find and execute an external gbce-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "gbce-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	env, err := extensionEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return true, 2
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
