package verify

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/irasm/ir"
)

// ErrLint is returned by a strict LintPass when issues were found.
var ErrLint = errors.New("lint issues found")

// LintPass runs RunLint as a pipeline pass. Issues are logged as warnings;
// a strict pass also fails.
type LintPass struct {
	Options Options
	Strict  bool
}

// Run checks p and returns it unchanged.
func (l LintPass) Run(p *ir.Program) (*ir.Program, error) {
	issues := RunLint(p, l.Options)
	for _, issue := range issues {
		slog.Warn(issue.Message, "type", issue.Type, "index", issue.Index)
	}

	if l.Strict && len(issues) > 0 {
		return nil, fmt.Errorf("%w: %d issues, first: %s", ErrLint, len(issues), issues[0].Message)
	}
	return p, nil
}
