package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/irasm/ir"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	InstructionCount int
	LabelCount       int
	Externals        []string
	LintIssues       []Issue
	StructIssues     []Issue
	FlowIssues       []Issue
	AssembleErr      error
	CodeSize         int
}

// GenerateReport runs lint and a trial assembly with asm, returns a report.
// The trial assembly seals p.
func GenerateReport(p *ir.Program, opts Options, asm ir.Assembler) *VerificationReport {
	report := &VerificationReport{
		InstructionCount: p.Len(),
		LabelCount:       len(p.Labels()),
		Externals:        Externals(p),
	}

	report.LintIssues = RunLint(p, opts)
	for _, issue := range report.LintIssues {
		if issue.Type == IssueStruct {
			report.StructIssues = append(report.StructIssues, issue)
		} else {
			report.FlowIssues = append(report.FlowIssues, issue)
		}
	}

	obj, err := asm.Assemble(p)
	report.AssembleErr = err
	if err == nil {
		report.CodeSize = len(obj.Code)
	}

	return report
}

// OK reports whether the program assembled without lint issues.
func (r *VerificationReport) OK() bool {
	return r.AssembleErr == nil && len(r.LintIssues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n%d instructions, %d labels\n", r.InstructionCount, r.LabelCount)
	if len(r.Externals) > 0 {
		fmt.Fprintf(w, "External symbols (%d):\n", len(r.Externals))
		for _, name := range r.Externals {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		fmt.Fprintf(w, "Found %d lint issues:\n", len(r.LintIssues))
		writeIssues(w, dash, "STRUCT", r.StructIssues)
		writeIssues(w, dash, "FLOW", r.FlowIssues)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: ASSEMBLY")
	fmt.Fprintln(w, separator)

	if r.AssembleErr == nil {
		fmt.Fprintf(w, "Assembled to %d bytes\n", r.CodeSize)
	} else {
		fmt.Fprintf(w, "Assembly error: %v\n", r.AssembleErr)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d FLOW)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.FlowIssues))
	status := "SUCCESS"
	if r.AssembleErr != nil {
		status = "FAILED: " + r.AssembleErr.Error()
	}
	fmt.Fprintf(w, "Assembly Result: %s\n", status)
	fmt.Fprintln(w)
}

func writeIssues(w io.Writer, dash, kind string, issues []Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s ISSUES (%d):\n", kind, len(issues))
	fmt.Fprintln(w, dash)
	for _, issue := range issues {
		fmt.Fprintf(w, "  [#%d] %s\n", issue.Index, issue.Message)
	}
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
