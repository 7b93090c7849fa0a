package ir

import "fmt"

// OperandKind tags an Operand. The values are the op2-kind bits of the
// instruction byte.
type OperandKind uint8

const (
	KindRegister OperandKind = 0b00
	KindIndirect OperandKind = 0b01
	KindSymbol   OperandKind = 0b10
	KindLiteral  OperandKind = 0b11
)

func (k OperandKind) Valid() bool {
	return k <= KindLiteral
}

// IsRegister reports whether the kind names a register, directly or
// indirectly.
func (k OperandKind) IsRegister() bool {
	return k == KindRegister || k == KindIndirect
}

func (k OperandKind) String() string {
	switch k {
	case KindRegister:
		return "register"
	case KindIndirect:
		return "indirect"
	case KindSymbol:
		return "symbol"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("OperandKind(%d)", k)
	}
}

// Operand is a value an instruction acts on. Which of Reg, Symbol and Value
// is meaningful depends on Kind.
type Operand struct {
	Kind   OperandKind
	Reg    Register
	Symbol string
	Value  uint64
}

// Reg makes a direct register operand.
func Reg(r Register) Operand {
	return Operand{Kind: KindRegister, Reg: r}
}

// Indirect makes a "value at the address held in r" operand.
func Indirect(r Register) Operand {
	return Operand{Kind: KindIndirect, Reg: r}
}

// Sym makes a symbolic reference, resolved to a local label offset or left
// for the linker.
func Sym(name string) Operand {
	return Operand{Kind: KindSymbol, Symbol: name}
}

// Lit makes an integer literal. Its encoded width comes from the
// instruction's size.
func Lit(v uint64) Operand {
	return Operand{Kind: KindLiteral, Value: v}
}

func (o Operand) String() string {
	switch o.Kind {
	case KindRegister:
		return o.Reg.String()
	case KindIndirect:
		return "[" + o.Reg.String() + "]"
	case KindSymbol:
		return o.Symbol
	case KindLiteral:
		return fmt.Sprintf("#0x%X", o.Value)
	default:
		return fmt.Sprintf("<%s>", o.Kind)
	}
}
