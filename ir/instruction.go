package ir

import (
	"fmt"
	"math"
)

// Instruction is one opcode plus its optional size, condition and operands.
// Which optional fields may be set is fixed by the opcode when the
// instruction is created, and each may be set at most once.
type Instruction struct {
	opcode Opcode
	size   OperandSize
	cond   Condition
	op1    Operand
	op2    Operand

	allows field
	set    field
}

// NewInstruction creates an instruction with no optional field set.
func NewInstruction(op Opcode) Instruction {
	return Instruction{
		opcode: op,
		allows: op.Info().fields,
	}
}

func (i Instruction) Opcode() Opcode { return i.opcode }

func (i Instruction) AllowsSize() bool      { return i.allows.has(fieldSize) }
func (i Instruction) AllowsCondition() bool { return i.allows.has(fieldCond) }
func (i Instruction) AllowsOp1() bool       { return i.allows.has(fieldOp1) }
func (i Instruction) AllowsOp2() bool       { return i.allows.has(fieldOp2) }

// Size returns the operand size and whether it was set.
func (i Instruction) Size() (OperandSize, bool) {
	return i.size, i.set.has(fieldSize)
}

// Condition returns the condition code and whether it was set.
func (i Instruction) Condition() (Condition, bool) {
	return i.cond, i.set.has(fieldCond)
}

// Op1 returns the first operand and whether it was set.
func (i Instruction) Op1() (Operand, bool) {
	return i.op1, i.set.has(fieldOp1)
}

// Op2 returns the second operand and whether it was set.
func (i Instruction) Op2() (Operand, bool) {
	return i.op2, i.set.has(fieldOp2)
}

func (i *Instruction) claim(f field, name string) error {
	if !i.allows.has(f) {
		return fmt.Errorf("%w: %s does not take %s", ErrInvalidOperand, i.opcode, name)
	}
	if i.set.has(f) {
		return fmt.Errorf("%w: %s already set on %s", ErrInvalidOperand, name, i.opcode)
	}
	return nil
}

// SetSize sets the operand size tag.
func (i *Instruction) SetSize(s OperandSize) error {
	if err := i.claim(fieldSize, "an operand size"); err != nil {
		return err
	}
	if !s.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, s)
	}
	i.size = s
	i.set |= fieldSize
	return nil
}

// SetCondition sets the condition code.
func (i *Instruction) SetCondition(c Condition) error {
	if err := i.claim(fieldCond, "a condition"); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, c)
	}
	i.cond = c
	i.set |= fieldCond
	return nil
}

// SetOp1 sets the first operand, which must be a register or a
// register-indirect.
func (i *Instruction) SetOp1(o Operand) error {
	if err := i.claim(fieldOp1, "op1"); err != nil {
		return err
	}
	if !o.Kind.IsRegister() {
		return fmt.Errorf("%w: op1 of %s must be a register or register-indirect, got %s",
			ErrInvalidOperand, i.opcode, o.Kind)
	}
	if err := checkOperand(o); err != nil {
		return err
	}
	i.op1 = o
	i.set |= fieldOp1
	return nil
}

// SetOp2 sets the second operand.
func (i *Instruction) SetOp2(o Operand) error {
	if err := i.claim(fieldOp2, "op2"); err != nil {
		return err
	}
	if !i.opcode.Info().AllowsOp2Kind(o.Kind) {
		return fmt.Errorf("%w: op2 of %s cannot be a %s", ErrInvalidOperand, i.opcode, o.Kind)
	}
	if err := checkOperand(o); err != nil {
		return err
	}
	if o.Kind == KindLiteral && !i.AllowsSize() && o.Value > math.MaxUint8 {
		return fmt.Errorf("%w: %s literal %#x does not fit in one byte",
			ErrUnsupportedEncoding, i.opcode, o.Value)
	}
	i.op2 = o
	i.set |= fieldOp2
	return nil
}

func checkOperand(o Operand) error {
	switch o.Kind {
	case KindRegister, KindIndirect:
		if !o.Reg.Valid() {
			return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, o.Reg)
		}
	case KindSymbol:
		if o.Symbol == "" {
			return fmt.Errorf("%w: empty symbol name", ErrInvalidOperand)
		}
	}
	return nil
}

// literalWidth is the number of payload bytes of a literal op2. Opcodes
// without a size tag take a one-byte literal, checked by SetOp2.
func (i Instruction) literalWidth() int {
	if !i.AllowsSize() {
		return Byte.Bytes()
	}
	if s, ok := i.Size(); ok {
		return s.Bytes()
	}
	return DefaultSize.Bytes()
}

// lower replaces pseudo instructions by the real instruction they stand for.
func (i Instruction) lower() Instruction {
	if i.opcode != RET {
		return i
	}
	jmp := NewInstruction(JMP)
	jmp.cond = AL
	jmp.op2 = Reg(LR)
	jmp.set = fieldCond | fieldOp2
	return jmp
}
