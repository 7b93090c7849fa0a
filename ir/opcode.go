package ir

import (
	"fmt"
	"strings"
)

// Opcode selects the operation of an instruction. Only the low 4 bits are
// ever encoded.
type Opcode uint8

const (
	JMP  Opcode = 0x0
	ADD  Opcode = 0x1
	SUB  Opcode = 0x2
	MUL  Opcode = 0x3
	DIV  Opcode = 0x4
	CMP  Opcode = 0x5
	TST  Opcode = 0x6
	AND  Opcode = 0x7
	OR   Opcode = 0x8
	XOR  Opcode = 0x9
	NOT  Opcode = 0xA
	LSL  Opcode = 0xB
	LSR  Opcode = 0xC
	MOV  Opcode = 0xD
	CALL Opcode = 0xE

	// RET is a pseudo opcode. The assembler lowers it to JMP AL LR, so the
	// code 0xF never reaches the output stream.
	RET Opcode = 0xF

	// CPL is the complement mnemonic for NOT.
	CPL = NOT
)

type field uint8

const (
	fieldSize field = 1 << iota
	fieldCond
	fieldOp1
	fieldOp2
)

func (f field) has(x field) bool {
	return f&x != 0
}

type kindSet uint8

func kinds(ks ...OperandKind) kindSet {
	var s kindSet
	for _, k := range ks {
		s |= 1 << k
	}
	return s
}

func (s kindSet) has(k OperandKind) bool {
	return k.Valid() && s&(1<<k) != 0
}

// OpcodeInfo describes which optional fields an opcode accepts.
type OpcodeInfo struct {
	Name     string
	fields   field
	op2Kinds kindSet
}

// AllowsSize reports whether the opcode carries an operand-size tag.
func (i OpcodeInfo) AllowsSize() bool { return i.fields.has(fieldSize) }

// AllowsCondition reports whether the opcode carries a condition code.
func (i OpcodeInfo) AllowsCondition() bool { return i.fields.has(fieldCond) }

// AllowsOp1 reports whether the opcode takes a first operand.
func (i OpcodeInfo) AllowsOp1() bool { return i.fields.has(fieldOp1) }

// AllowsOp2 reports whether the opcode takes a second operand.
func (i OpcodeInfo) AllowsOp2() bool { return i.fields.has(fieldOp2) }

// AllowsOp2Kind reports whether k is a legal kind for the second operand.
func (i OpcodeInfo) AllowsOp2Kind(k OperandKind) bool { return i.op2Kinds.has(k) }

var (
	anyOperand  = kinds(KindRegister, KindIndirect, KindSymbol, KindLiteral)
	callOperand = kinds(KindRegister, KindIndirect, KindSymbol)
)

func binaryOp(name string) OpcodeInfo {
	return OpcodeInfo{
		Name:     name,
		fields:   fieldSize | fieldOp1 | fieldOp2,
		op2Kinds: anyOperand,
	}
}

var opcodeInfoTable = [...]OpcodeInfo{
	JMP:  {Name: "JMP", fields: fieldCond | fieldOp2, op2Kinds: anyOperand},
	ADD:  binaryOp("ADD"),
	SUB:  binaryOp("SUB"),
	MUL:  binaryOp("MUL"),
	DIV:  binaryOp("DIV"),
	CMP:  binaryOp("CMP"),
	TST:  binaryOp("TST"),
	AND:  binaryOp("AND"),
	OR:   binaryOp("OR"),
	XOR:  binaryOp("XOR"),
	NOT:  {Name: "NOT", fields: fieldSize | fieldOp1},
	LSL:  binaryOp("LSL"),
	LSR:  binaryOp("LSR"),
	MOV:  binaryOp("MOV"),
	CALL: {Name: "CALL", fields: fieldOp2, op2Kinds: callOperand},
	RET:  {Name: "RET"},
}

// Valid reports whether the opcode fits in the 4-bit opcode field.
func (op Opcode) Valid() bool {
	return int(op) < len(opcodeInfoTable)
}

// Info returns the legality row for the opcode. Unknown opcodes accept no
// fields.
func (op Opcode) Info() OpcodeInfo {
	if !op.Valid() {
		return OpcodeInfo{Name: fmt.Sprintf("Opcode(%d)", op)}
	}
	return opcodeInfoTable[op]
}

func (op Opcode) String() string {
	return op.Info().Name
}

// ParseOpcode looks up an opcode by mnemonic, ignoring case. CPL is accepted
// as an alias of NOT.
func ParseOpcode(name string) (Opcode, bool) {
	upper := strings.ToUpper(name)
	if upper == "CPL" {
		return CPL, true
	}
	for op, info := range opcodeInfoTable {
		if info.Name == upper {
			return Opcode(op), true
		}
	}
	return 0, false
}
