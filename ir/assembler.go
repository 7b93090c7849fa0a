package ir

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ExternalEncoding selects how symbol operands are laid out in the stream.
type ExternalEncoding int

const (
	// ExternalRaw emits a 4-byte placeholder for local labels and the raw
	// name bytes for external symbols. The spans are only delimited by the
	// Object's reference tables.
	ExternalRaw ExternalEncoding = iota

	// ExternalLengthPrefixed precedes every symbol payload with a length
	// byte: 0 for a local label followed by its 4-byte offset, N for an
	// external followed by N name bytes.
	ExternalLengthPrefixed
)

func (e ExternalEncoding) String() string {
	switch e {
	case ExternalRaw:
		return "raw"
	case ExternalLengthPrefixed:
		return "prefixed"
	default:
		return fmt.Sprintf("ExternalEncoding(%d)", int(e))
	}
}

// ParseExternalEncoding accepts "raw" and "prefixed".
func ParseExternalEncoding(s string) (ExternalEncoding, error) {
	switch s {
	case "raw", "":
		return ExternalRaw, nil
	case "prefixed":
		return ExternalLengthPrefixed, nil
	default:
		return 0, fmt.Errorf("unknown external encoding %q", s)
	}
}

const (
	addrWidth       = 4
	maxPrefixedName = math.MaxUint8
)

// AssemblerBuilder can create assemblers.
type AssemblerBuilder struct {
	externalEncoding ExternalEncoding
	allowExternals   bool
}

// MakeAssemblerBuilder returns a builder with the default settings: raw
// external symbols, externals allowed.
func MakeAssemblerBuilder() AssemblerBuilder {
	return AssemblerBuilder{
		externalEncoding: ExternalRaw,
		allowExternals:   true,
	}
}

// WithExternalEncoding sets how symbol payloads are laid out.
func (b AssemblerBuilder) WithExternalEncoding(e ExternalEncoding) AssemblerBuilder {
	b.externalEncoding = e
	return b
}

// WithExternals sets whether symbols that are not local labels may be left
// for the linker. When false they fail with ErrUndefinedSymbol.
func (b AssemblerBuilder) WithExternals(allow bool) AssemblerBuilder {
	b.allowExternals = allow
	return b
}

// Build creates the assembler.
func (b AssemblerBuilder) Build() Assembler {
	return Assembler{
		externalEncoding: b.externalEncoding,
		allowExternals:   b.allowExternals,
	}
}

// Assembler lowers a Program to the packed instruction stream.
type Assembler struct {
	externalEncoding ExternalEncoding
	allowExternals   bool
}

// ExternalEncoding returns the symbol layout used by the assembler.
func (a Assembler) ExternalEncoding() ExternalEncoding {
	return a.externalEncoding
}

// Assemble assembles p with the default assembler and returns the code.
func (p *Program) Assemble() ([]byte, error) {
	obj, err := MakeAssemblerBuilder().Build().Assemble(p)
	if err != nil {
		return nil, err
	}
	return obj.Code, nil
}

type assembly struct {
	Assembler

	prog    *Program
	w       BitWriter
	obj     *Object
	pending map[int][]string
}

// Assemble encodes p in one pass over its instructions, then patches local
// label references. A successful run seals the program without modifying it,
// so assembling it again gives the same bytes. On failure nothing is returned
// and the program stays open.
func (a Assembler) Assemble(p *Program) (*Object, error) {
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("program has build errors: %w", err)
	}
	s := &assembly{
		Assembler: a,
		prog:      p,
		obj: &Object{
			Encoding: a.externalEncoding,
			Labels:   make(map[string]uint32),
		},
		pending: make(map[int][]string),
	}
	for _, name := range p.labelOrder {
		idx := p.labels[name]
		s.pending[idx] = append(s.pending[idx], name)
	}

	for idx, inst := range p.instructions {
		if err := s.bindLabels(idx); err != nil {
			return nil, err
		}
		if err := s.encode(idx, inst.lower()); err != nil {
			return nil, err
		}
	}
	if err := s.bindLabels(len(p.instructions)); err != nil {
		return nil, err
	}

	s.obj.Code = s.w.Bytes()
	if err := s.fixup(); err != nil {
		return nil, err
	}
	p.sealed = true

	Trace("Assembled", "instructions", len(p.instructions), "bytes", len(s.obj.Code),
		"fixups", len(s.obj.Fixups), "externals", len(s.obj.Externals))
	return s.obj, nil
}

// bindLabels records the current output offset for every label that
// precedes instruction idx, then drops them from the pending table.
func (s *assembly) bindLabels(idx int) error {
	names, ok := s.pending[idx]
	if !ok {
		return nil
	}
	offset, err := s.offset()
	if err != nil {
		return err
	}
	for _, name := range names {
		s.obj.Labels[name] = offset
		Trace("LabelBound", "label", name, "index", idx, "offset", offset)
	}
	delete(s.pending, idx)
	return nil
}

func (s *assembly) offset() (uint32, error) {
	n := s.w.Len()
	if uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: offset %d does not fit in %d bytes",
			ErrUnsupportedEncoding, n, addrWidth)
	}
	return uint32(n), nil
}

func (s *assembly) encode(idx int, inst Instruction) error {
	if !inst.opcode.Valid() {
		return fmt.Errorf("%w: instruction %d: %s", ErrUnsupportedEncoding, idx, inst.opcode)
	}

	op1, hasOp1 := inst.Op1()
	op2, hasOp2 := inst.Op2()

	header := uint64(inst.opcode) << 4
	if hasOp1 {
		switch op1.Kind {
		case KindRegister:
		case KindIndirect:
			header |= 1 << 3
		default:
			return fmt.Errorf("%w: instruction %d: op1 must be a register or register-indirect, got %s",
				ErrInvalidOperand, idx, op1.Kind)
		}
	}
	if hasOp2 {
		if !op2.Kind.Valid() {
			return fmt.Errorf("%w: instruction %d: %s", ErrUnsupportedEncoding, idx, op2.Kind)
		}
		header |= uint64(op2.Kind) << 1
	}
	s.w.WriteBits(header, 8)

	if inst.opcode == JMP {
		cond, ok := inst.Condition()
		if !ok {
			cond = AL
		}
		s.w.WriteBits(uint64(cond), 4)
	}

	if inst.AllowsSize() {
		size, ok := inst.Size()
		if !ok {
			size = DefaultSize
		}
		s.w.WriteBits(uint64(size), 2)
	}

	if hasOp1 {
		if !op1.Reg.Valid() {
			return fmt.Errorf("%w: instruction %d: %s", ErrUnsupportedEncoding, idx, op1.Reg)
		}
		s.w.WriteBits(uint64(op1.Reg), 3)
	}

	if hasOp2 {
		if err := s.encodeOp2(idx, inst, op2); err != nil {
			return err
		}
	}

	s.w.Align()
	return nil
}

func (s *assembly) encodeOp2(idx int, inst Instruction, op2 Operand) error {
	switch op2.Kind {
	case KindRegister, KindIndirect:
		if !op2.Reg.Valid() {
			return fmt.Errorf("%w: instruction %d: %s", ErrUnsupportedEncoding, idx, op2.Reg)
		}
		if s.w.Free() < 3 {
			s.w.Align()
		}
		s.w.WriteBits(uint64(op2.Reg), 3)

	case KindSymbol:
		s.w.Align()
		return s.encodeSymbol(idx, op2.Symbol)

	case KindLiteral:
		s.w.Align()
		var payload [8]byte
		binary.LittleEndian.PutUint64(payload[:], op2.Value)
		s.w.WriteBytes(payload[:inst.literalWidth()])

	default:
		return fmt.Errorf("%w: instruction %d: %s", ErrUnsupportedEncoding, idx, op2.Kind)
	}
	return nil
}

func (s *assembly) encodeSymbol(idx int, name string) error {
	if name == "" {
		return fmt.Errorf("%w: instruction %d: empty symbol", ErrUnsupportedEncoding, idx)
	}

	_, local := s.prog.labels[name]
	if !local && !s.allowExternals {
		return fmt.Errorf("%w: instruction %d: %q", ErrUndefinedSymbol, idx, name)
	}

	switch s.externalEncoding {
	case ExternalRaw:
	case ExternalLengthPrefixed:
		prefix := byte(0)
		if !local {
			if len(name) > maxPrefixedName {
				return fmt.Errorf("%w: instruction %d: symbol %q is longer than %d bytes",
					ErrUnsupportedEncoding, idx, name, maxPrefixedName)
			}
			prefix = byte(len(name))
		}
		s.w.WriteBytes([]byte{prefix})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, s.externalEncoding)
	}

	offset, err := s.offset()
	if err != nil {
		return err
	}

	if local {
		s.obj.Fixups = append(s.obj.Fixups, Reference{
			Offset: offset,
			Symbol: name,
			Length: addrWidth,
		})
		s.w.WriteBytes(make([]byte, addrWidth))
		return nil
	}

	s.obj.Externals = append(s.obj.Externals, Reference{
		Offset: offset,
		Symbol: name,
		Length: uint32(len(name)),
	})
	s.w.WriteBytes([]byte(name))
	return nil
}

// fixup overwrites every queued placeholder with the offset of its label.
func (s *assembly) fixup() error {
	for _, f := range s.obj.Fixups {
		target, ok := s.obj.Labels[f.Symbol]
		if !ok {
			return fmt.Errorf("%w: %q referenced at offset %d", ErrUndefinedSymbol, f.Symbol, f.Offset)
		}
		binary.LittleEndian.PutUint32(s.obj.Code[f.Offset:], target)
		Trace("Fixup", "symbol", f.Symbol, "at", f.Offset, "target", target)
	}
	return nil
}
