package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/irasm/ir"
	"github.com/sarchlab/irasm/pipeline"
)

type asmOptions struct {
	output   string
	format   string
	encoding string
	strict   bool
	symbols  bool
	passes   []string
}

func (a *app) asmCmd() *cobra.Command {
	var opts asmOptions

	cmd := &cobra.Command{
		Use:   "asm [file]",
		Short: "Assemble a source file",
		Long: `Assemble a source file, or standard input when no file is given.
The front end is picked by the file extension. Raw output to a terminal is
shown as a hex dump instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsm(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default standard output)")
	f.StringVarP(&opts.format, "format", "f", "", "output format: raw, hex or listing")
	f.StringVar(&opts.encoding, "encoding", "", "external symbol encoding: raw or prefixed")
	f.BoolVar(&opts.strict, "strict", false, "fail on symbols that are not local labels")
	f.BoolVar(&opts.symbols, "symbols", false, "write the symbol table next to the output as <output>.sym")
	f.StringSliceVar(&opts.passes, "pass", nil, "passes to run, in order")
	return cmd
}

func (a *app) runAsm(cmd *cobra.Command, args []string, opts asmOptions) error {
	cfg := *a.cfg
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = opts.format
	}
	if cmd.Flags().Changed("encoding") {
		cfg.Assembler.ExternalEncoding = opts.encoding
	}
	if cmd.Flags().Changed("strict") {
		cfg.Assembler.AllowExternals = !opts.strict
	}
	if cmd.Flags().Changed("symbols") {
		cfg.Output.Symbols = opts.symbols
	}
	if cmd.Flags().Changed("pass") {
		cfg.Output.Passes = opts.passes
	}

	src, name, err := openSource(cmd, args)
	if err != nil {
		return err
	}
	defer src.Close()

	if name != "" && filepath.Ext(name) != "" {
		if _, err := a.registry.FrontendForPath(name); err == nil {
			cfg.Output.Frontend = strings.ToLower(filepath.Ext(name))
		}
	}

	var dst io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		out, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		dst = out
	} else if cfg.Output.Format == "raw" && isTerminal(dst) {
		slog.Info("Writing a hex dump to the terminal")
		cfg.Output.Format = "hex"
	}

	b, err := cfg.PipelineBuilder(a.registry)
	if err != nil {
		return err
	}
	p, err := b.Build()
	if err != nil {
		return err
	}

	w := bufio.NewWriter(dst)
	obj, err := p.Flow(context.Background(), src, w)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(name), err)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !cfg.Output.Symbols {
		return nil
	}
	if opts.output == "" {
		if cmd.Flags().Changed("symbols") {
			return fmt.Errorf("--symbols needs an output file")
		}
		slog.Warn("Symbols not written without an output file")
		return nil
	}
	return writeSymbols(opts.output+".sym", obj)
}

func writeSymbols(path string, obj *ir.Object) error {
	data, err := obj.MarshalSymbols()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func openSource(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}

func displayName(name string) string {
	if name == "" {
		return "<stdin>"
	}
	return name
}

// parseSource runs only the front end over the source.
func (a *app) parseSource(cmd *cobra.Command, args []string) (*ir.Program, error) {
	src, name, err := openSource(cmd, args)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var fe pipeline.Frontend
	switch {
	case name != "" && filepath.Ext(name) != "":
		fe, err = a.registry.FrontendForPath(name)
	case a.cfg.Output.Frontend != "":
		fe, err = a.registry.Frontend(a.cfg.Output.Frontend)
	default:
		fe, err = a.registry.Frontend("asm")
	}
	if err != nil {
		return nil, err
	}

	prog, err := fe.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(name), err)
	}
	return prog, nil
}
