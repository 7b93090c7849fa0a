// Package disasm decodes the packed instruction stream produced by the ir
// assembler back into instructions.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/sarchlab/irasm/ir"
)

// Line is one decoded instruction.
type Line struct {
	Offset      uint32
	Bytes       []byte
	Instruction ir.Instruction
	Labels      []string
}

// Pseudo returns the pseudo mnemonic the instruction stands for, if any.
func (l Line) Pseudo() (string, bool) {
	inst := l.Instruction
	if inst.IsNop() {
		return "NOP", true
	}

	cond, _ := inst.Condition()
	op2, _ := inst.Op2()
	if inst.Opcode() == ir.JMP && cond == ir.AL && op2 == ir.Reg(ir.LR) {
		return "RET", true
	}
	return "", false
}

func (l Line) String() string {
	if p, ok := l.Pseudo(); ok {
		return p
	}
	return l.Instruction.String()
}

// Decode splits code into instructions. meta supplies the symbol layout and
// the label and external tables; it may be nil, in which case every symbol
// operand is read as a raw local address. With ir.ExternalLengthPrefixed the
// stream is self-delimiting and meta only needs its Encoding set.
func Decode(code []byte, meta *ir.Object) ([]Line, error) {
	if meta == nil {
		meta = &ir.Object{}
	}

	d := &decoder{
		r:    bitReader{code: code},
		meta: meta,
	}

	var lines []Line
	for d.r.pos < len(code) {
		start := d.r.pos
		inst, err := d.decode()
		if err != nil {
			return nil, err
		}
		d.r.align()

		lines = append(lines, Line{
			Offset:      uint32(start),
			Bytes:       code[start:d.r.pos],
			Instruction: inst,
			Labels:      meta.LabelsAt(uint32(start)),
		})
	}

	ir.Trace("Decoded", "bytes", len(code), "instructions", len(lines))
	return lines, nil
}

type decoder struct {
	r    bitReader
	meta *ir.Object
}

func (d *decoder) fail(start int, format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s",
		ir.ErrUnsupportedEncoding, start, fmt.Sprintf(format, args...))
}

func (d *decoder) decode() (ir.Instruction, error) {
	start := d.r.pos

	header, err := d.r.readBits(8, "instruction byte")
	if err != nil {
		return ir.Instruction{}, err
	}
	op := ir.Opcode(header >> 4)
	op1Kind := ir.OperandKind(header >> 3 & 1)
	op2Kind := ir.OperandKind(header >> 1 & 0b11)

	if header&1 != 0 {
		return ir.Instruction{}, d.fail(start, "reserved bit set in 0x%02X", header)
	}
	if op == ir.RET {
		return ir.Instruction{}, d.fail(start, "%s is a pseudo opcode", op)
	}

	inst := ir.NewInstruction(op)
	if !inst.AllowsOp1() && op1Kind != ir.KindRegister {
		return ir.Instruction{}, d.fail(start, "%s has no op1", op)
	}
	if !inst.AllowsOp2() && op2Kind != ir.KindRegister {
		return ir.Instruction{}, d.fail(start, "%s has no op2", op)
	}

	if inst.AllowsCondition() {
		cond, err := d.r.readBits(4, "condition")
		if err != nil {
			return ir.Instruction{}, err
		}
		if err := inst.SetCondition(ir.Condition(cond)); err != nil {
			return ir.Instruction{}, d.fail(start, "%v", err)
		}
	}

	if inst.AllowsSize() {
		size, err := d.r.readBits(2, "size")
		if err != nil {
			return ir.Instruction{}, err
		}
		if err := inst.SetSize(ir.OperandSize(size)); err != nil {
			return ir.Instruction{}, d.fail(start, "%v", err)
		}
	}

	if inst.AllowsOp1() {
		reg, err := d.r.readBits(3, "op1")
		if err != nil {
			return ir.Instruction{}, err
		}
		op1 := ir.Operand{Kind: op1Kind, Reg: ir.Register(reg)}
		if err := inst.SetOp1(op1); err != nil {
			return ir.Instruction{}, d.fail(start, "%v", err)
		}
	}

	if inst.AllowsOp2() {
		op2, err := d.decodeOp2(inst, op2Kind)
		if err != nil {
			return ir.Instruction{}, err
		}
		if err := inst.SetOp2(op2); err != nil {
			return ir.Instruction{}, d.fail(start, "%v", err)
		}
	}

	return inst, nil
}

func (d *decoder) decodeOp2(inst ir.Instruction, kind ir.OperandKind) (ir.Operand, error) {
	switch kind {
	case ir.KindRegister, ir.KindIndirect:
		if d.r.free() < 3 {
			d.r.align()
		}
		reg, err := d.r.readBits(3, "op2")
		if err != nil {
			return ir.Operand{}, err
		}
		return ir.Operand{Kind: kind, Reg: ir.Register(reg)}, nil

	case ir.KindSymbol:
		d.r.align()
		name, err := d.decodeSymbol()
		if err != nil {
			return ir.Operand{}, err
		}
		return ir.Sym(name), nil

	default:
		d.r.align()
		width := ir.Byte.Bytes()
		if size, ok := inst.Size(); ok {
			width = size.Bytes()
		}
		payload, err := d.r.readBytes(width, "literal")
		if err != nil {
			return ir.Operand{}, err
		}
		var buf [8]byte
		copy(buf[:], payload)
		return ir.Lit(binary.LittleEndian.Uint64(buf[:])), nil
	}
}

func (d *decoder) decodeSymbol() (string, error) {
	switch d.meta.Encoding {
	case ir.ExternalLengthPrefixed:
		prefix, err := d.r.readBytes(1, "symbol prefix")
		if err != nil {
			return "", err
		}
		if prefix[0] == 0 {
			return d.decodeAddress()
		}
		name, err := d.r.readBytes(int(prefix[0]), "external symbol")
		if err != nil {
			return "", err
		}
		return string(name), nil

	default:
		if ref, ok := d.meta.ExternalAt(uint32(d.r.pos)); ok {
			name, err := d.r.readBytes(int(ref.Length), "external symbol")
			if err != nil {
				return "", err
			}
			return string(name), nil
		}
		return d.decodeAddress()
	}
}

// decodeAddress reads a resolved local address and names it after the label
// bound there, or Lxxxx when no label is known.
func (d *decoder) decodeAddress() (string, error) {
	b, err := d.r.readBytes(4, "address")
	if err != nil {
		return "", err
	}
	addr := binary.LittleEndian.Uint32(b)
	if names := d.meta.LabelsAt(addr); len(names) > 0 {
		return names[0], nil
	}
	return fmt.Sprintf("L%04X", addr), nil
}

// Listing renders lines as an offset-prefixed assembly listing with labels
// on their own lines.
func Listing(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		for _, name := range l.Labels {
			fmt.Fprintf(&sb, "%s:\n", name)
		}
		fmt.Fprintf(&sb, "%04X  %-24s %s\n", l.Offset, hexBytes(l.Bytes), l)
	}
	return sb.String()
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(parts, " ")
}
