package cmd

import (
	"github.com/achilleasa/polaris-cpu/log"
	"github.com/urfave/cli"
)

var logger = log.New("polaris")

// Apply the verbosity selected by the global -v / -vv flags.
func setupLogging(ctx *cli.Context) {
	level := verbosity(ctx.GlobalBool("v"), ctx.GlobalBool("vv"))
	log.SetLevel(level)
	logger.Debugf("log level set to %s", level)
}

// Map the verbosity flags to a log level; -vv wins over -v.
func verbosity(verbose, veryVerbose bool) log.Level {
	switch {
	case veryVerbose:
		return log.Debug
	case verbose:
		return log.Info
	default:
		return log.Notice
	}
}
