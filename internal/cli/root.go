// Package cli implements the modelcheck command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	code, show := exitCode(err)
	if show {
		fmt.Fprintf(stderr, "modelcheck: %v\n", err)
	}
	return code
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modelcheck",
		Short:         "Smoke-test a model inventory: report sizes and save every model in every format",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Runnable so unknown subcommands reach Args and exit with ExitUsage.
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error { return cmd.Help() },
	}

	// Persistent flags override config file and environment.
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults MODELCHECK_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: console|json (defaults MODELCHECK_LOG_FORMAT or console)")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error { return usageError(err) })

	// Completion only needs the command tree, not a valid config.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch {
		case cmd == root, cmd.Name() == "help", cmd.Name() == cobra.ShellCompRequestCmd, cmd.Name() == cobra.ShellCompNoDescRequestCmd:
			return nil
		case cmd.HasParent() && cmd.Parent().Name() == "completion":
			return nil
		}
		return a.load(cmd)
	}

	root.AddCommand(
		a.runCmd(),
		a.modelsCmd(),
		a.formatsCmd(),
		a.printCmd(),
		a.historyCmd(),
		a.serveCmd(),
	)
	return root
}

// usageArgs wraps a cobra argument validator so its errors exit with ExitUsage.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
