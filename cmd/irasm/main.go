// Command irasm assembles, disassembles and inspects programs for the
// eight-register target.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/sarchlab/irasm/config"
	"github.com/sarchlab/irasm/ir"
	"github.com/sarchlab/irasm/pipeline"
)

type app struct {
	verbose   bool
	configDir string

	cfg      *config.Config
	registry *pipeline.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{registry: pipeline.DefaultRegistry()}

	root := &cobra.Command{
		Use:           "irasm",
		Short:         "Assembler for the eight-register target",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every assembler step")
	root.PersistentFlags().StringVar(&a.configDir, "config", ".",
		"directory to start looking for "+config.FileName)

	root.AddCommand(
		a.asmCmd(),
		a.disCmd(),
		a.listCmd(),
		a.treeCmd(),
		a.verifyCmd(),
		a.componentsCmd(),
	)
	return root
}

func (a *app) setup(logOut io.Writer) error {
	level := slog.LevelWarn
	if a.verbose {
		level = ir.LevelTrace
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))

	cfg, err := config.FindAndLoad(a.configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.Dir != "" {
		slog.Debug("Config loaded", "dir", cfg.Dir)
	}
	return nil
}

// isTerminal reports whether w is a terminal, in which case raw bytes are
// not written to it.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "irasm:", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
