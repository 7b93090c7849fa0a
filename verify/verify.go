// Package verify provides static checks over an ir.Program before it is
// assembled.
//
// Two kinds of issue are reported:
//
//   - STRUCT: label problems, such as a label nothing refers to.
//   - FLOW: control-flow problems, such as an unconditional jump to its own
//     label or an instruction that can never run because it follows an
//     unconditional jump and carries no label.
//
// The checks never change the program. LintPass runs them as a pipeline
// pass.
package verify

// IssueType classifies an issue.
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // label or symbol problem
	IssueFlow   IssueType = "FLOW"   // unreachable code or a jump that cannot make progress
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType      // STRUCT or FLOW
	Index   int            // Instruction index or -1
	Label   string         // Label involved, if any
	Message string         // Human-readable description
	Details map[string]any // Additional structured data
}

// Options tunes the checks.
type Options struct {
	// Entries are labels reached from outside the program. They are never
	// reported as unused.
	Entries []string
}

// DefaultOptions treats main and _start as entry points.
func DefaultOptions() Options {
	return Options{Entries: []string{"main", "_start"}}
}

func (o Options) isEntry(name string) bool {
	for _, e := range o.Entries {
		if e == name {
			return true
		}
	}
	return false
}
