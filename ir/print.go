package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/xlab/treeprint"
)

// IsNop reports whether the instruction is the canonical no-op, JMP NV #0.
func (i Instruction) IsNop() bool {
	cond, hasCond := i.Condition()
	op2, hasOp2 := i.Op2()
	return i.opcode == JMP &&
		hasCond && cond == NV &&
		hasOp2 && op2.Kind == KindLiteral && op2.Value == 0
}

// Mnemonic returns the opcode name with its size or condition suffix, for
// example MOV.W or JMP.AL.
func (i Instruction) Mnemonic() string {
	var sb strings.Builder
	sb.WriteString(i.opcode.String())
	if s, ok := i.Size(); ok {
		sb.WriteString(".")
		sb.WriteString(s.String())
	}
	if c, ok := i.Condition(); ok {
		sb.WriteString(".")
		sb.WriteString(c.String())
	}
	return sb.String()
}

// String renders the instruction in assembly form, for example
// "MOV.W R0, [R1]". The canonical no-op prints as NOP.
func (i Instruction) String() string {
	if i.IsNop() {
		return "NOP"
	}

	var operands []string
	if o, ok := i.Op1(); ok {
		operands = append(operands, o.String())
	}
	if o, ok := i.Op2(); ok {
		operands = append(operands, o.String())
	}

	if len(operands) == 0 {
		return i.Mnemonic()
	}
	return i.Mnemonic() + " " + strings.Join(operands, ", ")
}

// String renders the program with labels on their own lines and
// instructions indented by a tab.
func (p *Program) String() string {
	var sb strings.Builder
	for idx := 0; idx <= len(p.instructions); idx++ {
		for _, name := range p.LabelsAt(idx) {
			fmt.Fprintf(&sb, "%s:\n", name)
		}
		if idx < len(p.instructions) {
			fmt.Fprintf(&sb, "\t%s\n", p.instructions[idx])
		}
	}
	return sb.String()
}

func optional[T fmt.Stringer](v T, ok bool) string {
	if !ok {
		return "-"
	}
	return v.String()
}

// WriteListing writes the program as a table with one row per instruction.
func (p *Program) WriteListing(w io.Writer) error {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Program (%d instructions, %d labels)",
		len(p.instructions), len(p.labels)))
	t.AppendHeader(table.Row{"#", "Labels", "Op", "Size", "Cond", "Op1", "Op2"})

	for idx, inst := range p.instructions {
		size, hasSize := inst.Size()
		cond, hasCond := inst.Condition()
		op1, hasOp1 := inst.Op1()
		op2, hasOp2 := inst.Op2()
		t.AppendRow(table.Row{
			idx,
			strings.Join(p.LabelsAt(idx), " "),
			inst.opcode,
			optional(size, hasSize),
			optional(cond, hasCond),
			optional(op1, hasOp1),
			optional(op2, hasOp2),
		})
	}
	if tail := p.LabelsAt(len(p.instructions)); len(tail) > 0 {
		t.AppendFooter(table.Row{len(p.instructions), strings.Join(tail, " ")})
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Tree returns the fields set on the instruction as a tree.
func (i Instruction) Tree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(i.String())
	i.addFields(tree)
	return tree
}

func (i Instruction) addFields(tree treeprint.Tree) {
	if s, ok := i.Size(); ok {
		tree.AddMetaNode("size", s)
	}
	if c, ok := i.Condition(); ok {
		tree.AddMetaNode("cond", c)
	}
	if o, ok := i.Op1(); ok {
		tree.AddMetaNode("op1 "+o.Kind.String(), o)
	}
	if o, ok := i.Op2(); ok {
		tree.AddMetaNode("op2 "+o.Kind.String(), o)
	}
}

// Tree returns the program as a tree: one branch per label, instructions
// under the label that precedes them.
func (p *Program) Tree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("program (%d instructions)", len(p.instructions)))

	parent := tree
	for idx := 0; idx <= len(p.instructions); idx++ {
		for _, name := range p.LabelsAt(idx) {
			parent = tree.AddBranch(name + ":")
		}
		if idx == len(p.instructions) {
			break
		}

		inst := p.instructions[idx]
		node := parent.AddMetaBranch(idx, inst.String())
		inst.addFields(node)
	}
	return tree
}
