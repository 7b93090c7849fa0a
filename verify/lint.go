package verify

import (
	"fmt"

	"github.com/sarchlab/irasm/ir"
)

// RunLint performs the static checks on p and returns the issues found, or
// an empty list.
func RunLint(p *ir.Program, opts Options) []Issue {
	var issues []Issue

	insts := p.Instructions()
	refs := make(map[string][]int)
	for idx, inst := range insts {
		if op2, ok := inst.Op2(); ok && op2.Kind == ir.KindSymbol {
			refs[op2.Symbol] = append(refs[op2.Symbol], idx)
		}
	}

	// STRUCT: labels nobody refers to
	for _, l := range p.Labels() {
		if len(refs[l.Name]) > 0 || opts.isEntry(l.Name) {
			continue
		}
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Index:   l.Index,
			Label:   l.Name,
			Message: fmt.Sprintf("Label %s is never referenced", l.Name),
			Details: map[string]any{"index": l.Index},
		})
	}

	// FLOW: unconditional self jumps and unreachable code
	for idx, inst := range insts {
		if target, ok := localTarget(p, inst); ok && target == idx && unconditional(inst) {
			op2, _ := inst.Op2()
			issues = append(issues, Issue{
				Type:    IssueFlow,
				Index:   idx,
				Label:   op2.Symbol,
				Message: fmt.Sprintf("Instruction %d (%s) jumps to itself unconditionally", idx, inst),
			})
		}

		if idx == 0 || len(p.LabelsAt(idx)) > 0 {
			continue
		}
		prev := insts[idx-1]
		if unconditional(prev) {
			issues = append(issues, Issue{
				Type:    IssueFlow,
				Index:   idx,
				Message: fmt.Sprintf("Instruction %d (%s) is unreachable", idx, inst),
				Details: map[string]any{"after": prev.String()},
			})
		}
	}

	return issues
}

// unconditional reports whether inst is a JMP that is always taken. An unset
// condition assembles as AL.
func unconditional(inst ir.Instruction) bool {
	if inst.Opcode() == ir.RET {
		return true
	}
	if inst.Opcode() != ir.JMP {
		return false
	}
	cond, ok := inst.Condition()
	return !ok || cond == ir.AL
}

func localTarget(p *ir.Program, inst ir.Instruction) (int, bool) {
	if inst.Opcode() != ir.JMP {
		return 0, false
	}
	op2, ok := inst.Op2()
	if !ok || op2.Kind != ir.KindSymbol {
		return 0, false
	}
	return p.LabelIndex(op2.Symbol)
}

// Externals lists the symbols that are not local labels, in order of first
// use.
func Externals(p *ir.Program) []string {
	var names []string
	seen := make(map[string]bool)
	for _, inst := range p.Instructions() {
		op2, ok := inst.Op2()
		if !ok || op2.Kind != ir.KindSymbol || seen[op2.Symbol] {
			continue
		}
		seen[op2.Symbol] = true
		if _, local := p.LabelIndex(op2.Symbol); !local {
			names = append(names, op2.Symbol)
		}
	}
	return names
}
