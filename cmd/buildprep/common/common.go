// Package common holds wiring shared by the buildprep subcommands.
package common

import (
	"context"
	"errors"

	"github.com/flarebyte/buildprep/internal/config"
	"github.com/flarebyte/buildprep/internal/logx"
	"github.com/flarebyte/buildprep/internal/toolexec"
	"github.com/spf13/cobra"
)

// EnvFileFlag is the root persistent flag naming a dotenv file with tool
// overrides.
const EnvFileFlag = "env-file"

// Runner is the process runner used by every subcommand. Tests replace it.
var Runner toolexec.Runner = toolexec.Exec{}

// Tools resolves external tool locations, honouring --env-file when the
// command inherits it.
func Tools(cmd *cobra.Command) (config.Tools, error) {
	envFile := ""
	if f := cmd.Flag(EnvFileFlag); f != nil {
		envFile = f.Value.String()
	}
	return config.LoadTools(envFile)
}

// Context returns the command context, or Background when the command is
// run without Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Logger writes to the command's configured streams.
func Logger(cmd *cobra.Command) *logx.Logger {
	return logx.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// ReportToolError prints the detail carried by tool errors. It returns err
// unchanged so callers can write `return common.ReportToolError(log, err)`.
func ReportToolError(log *logx.Logger, err error) error {
	var rep interface{ Report(*logx.Logger) }
	if errors.As(err, &rep) {
		rep.Report(log)
		return err
	}
	var nf *toolexec.NotFoundError
	if errors.As(err, &nf) {
		log.Errorf("%s", nf.Error())
		return err
	}
	return err
}
