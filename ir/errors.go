package ir

import "errors"

// Build and assembly errors. They are always returned wrapped with context;
// use errors.Is to inspect them.
var (
	// ErrInvalidOperand reports a field the opcode does not allow, a field set
	// twice, or an op1 that is not a register or register-indirect.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrDuplicateLabel reports a label name added twice to one program.
	ErrDuplicateLabel = errors.New("duplicate label")

	// ErrInvalidLabel reports an empty label name.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrUndefinedSymbol reports a reference to a symbol that is not bound to
	// any instruction position and may not be left external.
	ErrUndefinedSymbol = errors.New("undefined symbol")

	// ErrUnsupportedEncoding reports a value the encoder cannot pack.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrSealed reports a builder call on a program that was already
	// assembled.
	ErrSealed = errors.New("program already assembled")
)
