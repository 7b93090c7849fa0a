package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/irasm/disasm"
	"github.com/sarchlab/irasm/ir"
	"github.com/sarchlab/irasm/verify"
)

func (a *app) disCmd() *cobra.Command {
	var (
		symbols  string
		encoding string
	)

	cmd := &cobra.Command{
		Use:   "dis <file>",
		Short: "Disassemble assembled code",
		Long: `Disassemble assembled code. Labels and external symbols are taken
from the symbol table written by "asm --symbols", which defaults to
<file>.sym when it exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			meta := &ir.Object{}
			if symbols == "" {
				if _, err := os.Stat(args[0] + ".sym"); err == nil {
					symbols = args[0] + ".sym"
				}
			}
			if symbols != "" {
				data, err := os.ReadFile(symbols)
				if err != nil {
					return err
				}
				if err := meta.UnmarshalSymbols(data); err != nil {
					return fmt.Errorf("%s: %w", symbols, err)
				}
			} else {
				enc := a.cfg.Assembler.ExternalEncoding
				if cmd.Flags().Changed("encoding") {
					enc = encoding
				}
				if meta.Encoding, err = ir.ParseExternalEncoding(enc); err != nil {
					return err
				}
			}

			lines, err := disasm.Decode(code, meta)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), disasm.Listing(lines))
			return err
		},
	}

	cmd.Flags().StringVarP(&symbols, "symbols", "s", "", "symbol table file")
	cmd.Flags().StringVar(&encoding, "encoding", "", "external symbol encoding when there is no symbol table")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [file]",
		Short: "Print the parsed program as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := a.parseSource(cmd, args)
			if err != nil {
				return err
			}
			return prog.WriteListing(cmd.OutOrStdout())
		},
	}
}

func (a *app) treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the parsed program as a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := a.parseSource(cmd, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), prog.Tree().String())
			return err
		},
	}
}

func (a *app) componentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the registered pipeline components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frontends: %v\n", a.registry.Frontends())
			fmt.Fprintf(out, "passes:    %v\n", a.registry.Passes())
			fmt.Fprintf(out, "outlets:   %v\n", a.registry.Outlets())
			return nil
		},
	}
}

func (a *app) verifyCmd() *cobra.Command {
	var reportFile string

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Lint and trial-assemble a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := a.parseSource(cmd, args)
			if err != nil {
				return err
			}
			ab, err := a.cfg.AssemblerBuilder()
			if err != nil {
				return err
			}

			report := verify.GenerateReport(prog, verify.DefaultOptions(), ab.Build())
			report.WriteReport(cmd.OutOrStdout())
			if reportFile != "" {
				if err := report.SaveReportToFile(reportFile); err != nil {
					return err
				}
			}

			if !report.OK() {
				return fmt.Errorf("verification failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportFile, "report", "", "also save the report to this file")
	return cmd
}
