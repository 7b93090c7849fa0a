package ir

import (
	"fmt"
	"sort"
)

// Program is an ordered sequence of instructions plus a table of labels.
// Each label names the index of the instruction it precedes; a label may
// point one past the last instruction.
//
// A Program is append-only while it is built. The first Assemble seals it.
type Program struct {
	instructions []Instruction
	labels       map[string]int
	labelOrder   []string

	err    error
	sealed bool
}

// Label is a named instruction index.
type Label struct {
	Name  string
	Index int
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{
		labels: make(map[string]int),
	}
}

// AddLabel binds name to the next instruction to be added.
func (p *Program) AddLabel(name string) error {
	if p.sealed {
		return fmt.Errorf("%w: cannot add label %q", ErrSealed, name)
	}
	if name == "" {
		return fmt.Errorf("%w: empty label name", ErrInvalidLabel)
	}
	if idx, ok := p.labels[name]; ok {
		return fmt.Errorf("%w: %q already bound to instruction %d", ErrDuplicateLabel, name, idx)
	}

	p.labels[name] = len(p.instructions)
	p.labelOrder = append(p.labelOrder, name)
	return nil
}

// AddInstruction appends a new instruction and returns the handle used to
// fill in its fields. Only the most recently added instruction is under
// construction; a handle to an older one reports ErrInvalidOperand.
func (p *Program) AddInstruction(op Opcode) *Handle {
	h := &Handle{p: p, index: -1}
	if p.sealed {
		h.err = fmt.Errorf("%w: cannot add %s", ErrSealed, op)
		return h
	}

	h.index = len(p.instructions)
	p.instructions = append(p.instructions, NewInstruction(op))
	if !op.Valid() {
		h.fail(fmt.Errorf("%w: %s", ErrUnsupportedEncoding, op))
	}
	return h
}

// Nop appends the canonical no-op: JMP NV to a zero literal.
func (p *Program) Nop() error {
	return p.AddInstruction(JMP).Cond(NV).Op2(Lit(0)).Err()
}

// Ret appends the return pseudo instruction, which assembles to JMP AL LR.
func (p *Program) Ret() error {
	return p.AddInstruction(RET).Err()
}

// Emit appends an instruction and applies fields in order.
func (p *Program) Emit(op Opcode, fields ...Field) error {
	h := p.AddInstruction(op)
	for _, f := range fields {
		f(h)
	}
	return h.Err()
}

// Err returns the first error recorded while building the program.
func (p *Program) Err() error {
	return p.err
}

// Sealed reports whether the program was assembled.
func (p *Program) Sealed() bool {
	return p.sealed
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// Instruction returns a copy of the instruction at index i.
func (p *Program) Instruction(i int) Instruction {
	return p.instructions[i]
}

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []Instruction {
	out := make([]Instruction, len(p.instructions))
	copy(out, p.instructions)
	return out
}

// LabelIndex returns the instruction index bound to name.
func (p *Program) LabelIndex(name string) (int, bool) {
	idx, ok := p.labels[name]
	return idx, ok
}

// Labels returns all labels ordered by index, then by insertion order.
func (p *Program) Labels() []Label {
	out := make([]Label, 0, len(p.labelOrder))
	for _, name := range p.labelOrder {
		out = append(out, Label{Name: name, Index: p.labels[name]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Index < out[b].Index
	})
	return out
}

// LabelsAt returns the labels bound to index i in insertion order.
func (p *Program) LabelsAt(i int) []string {
	var names []string
	for _, name := range p.labelOrder {
		if p.labels[name] == i {
			names = append(names, name)
		}
	}
	return names
}

func (p *Program) recordErr(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Handle gives access to the instruction under construction. Setters are
// chainable; the first failure sticks to the handle and to the program, so
// Assemble refuses a program with an unchecked build error.
type Handle struct {
	p     *Program
	index int
	err   error
}

// Index returns the position of the instruction in the program, or -1 if it
// was never appended.
func (h *Handle) Index() int {
	return h.index
}

// Err returns the first error raised through this handle.
func (h *Handle) Err() error {
	return h.err
}

func (h *Handle) Size(s OperandSize) *Handle {
	return h.apply(func(i *Instruction) error { return i.SetSize(s) })
}

func (h *Handle) Cond(c Condition) *Handle {
	return h.apply(func(i *Instruction) error { return i.SetCondition(c) })
}

func (h *Handle) Op1(o Operand) *Handle {
	return h.apply(func(i *Instruction) error { return i.SetOp1(o) })
}

func (h *Handle) Op2(o Operand) *Handle {
	return h.apply(func(i *Instruction) error { return i.SetOp2(o) })
}

func (h *Handle) apply(set func(*Instruction) error) *Handle {
	if h.err != nil {
		return h
	}

	p := h.p
	switch {
	case p.sealed:
		h.err = fmt.Errorf("%w: instruction %d is frozen", ErrSealed, h.index)
		return h
	case h.index != len(p.instructions)-1:
		h.fail(fmt.Errorf("%w: instruction %d is no longer under construction",
			ErrInvalidOperand, h.index))
		return h
	}

	inst := &p.instructions[h.index]
	if err := set(inst); err != nil {
		h.fail(fmt.Errorf("instruction %d (%s): %w", h.index, inst.opcode, err))
	}
	return h
}

func (h *Handle) fail(err error) {
	h.err = err
	h.p.recordErr(err)
}

// Field sets one field through a handle. See Program.Emit.
type Field func(*Handle)

func WithSize(s OperandSize) Field { return func(h *Handle) { h.Size(s) } }
func WithCond(c Condition) Field   { return func(h *Handle) { h.Cond(c) } }
func WithOp1(o Operand) Field      { return func(h *Handle) { h.Op1(o) } }
func WithOp2(o Operand) Field      { return func(h *Handle) { h.Op2(o) } }
