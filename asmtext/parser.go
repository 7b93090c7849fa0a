// Package asmtext reads the line-oriented assembly text form into an
// ir.Program.
//
//	; comment
//	label:
//	mnemonic[.size][.cond] [op1[, op2]]
//
// Operands are registers (r0..r7, ar, cp, lr), register-indirect ([r1]),
// literals (#42, #0x2a) and symbol names.
package asmtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/irasm/ir"
)

// ErrSyntax reports text that does not follow the assembly grammar.
var ErrSyntax = errors.New("syntax error")

// Error locates a failure in the source text.
type Error struct {
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parse reads a whole program. It stops at the first error.
func Parse(r io.Reader) (*ir.Program, error) {
	p := ir.NewProgram()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if err := parseLine(p, text); err != nil {
			return nil, &Error{Line: lineNo, Text: strings.TrimSpace(text), Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("asmtext: read: %w", err)
	}

	ir.Trace("Parsed", "lines", lineNo, "instructions", p.Len())
	return p, nil
}

// ParseString is Parse over a string.
func ParseString(src string) (*ir.Program, error) {
	return Parse(strings.NewReader(src))
}

func parseLine(p *ir.Program, line string) error {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)

	for {
		i := strings.IndexByte(line, ':')
		if i < 0 {
			break
		}
		name := strings.TrimSpace(line[:i])
		if !isIdent(name) {
			return fmt.Errorf("%w: bad label %q", ErrSyntax, name)
		}
		if err := p.AddLabel(name); err != nil {
			return err
		}
		line = strings.TrimSpace(line[i+1:])
	}

	if line == "" {
		return nil
	}
	return parseInstruction(p, line)
}

func parseInstruction(p *ir.Program, line string) error {
	mnemonic, rest := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		mnemonic, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	var operands []string
	if rest != "" {
		for _, s := range strings.Split(rest, ",") {
			operands = append(operands, strings.TrimSpace(s))
		}
	}

	parts := strings.Split(mnemonic, ".")
	switch strings.ToLower(parts[0]) {
	case "nop":
		if len(parts) > 1 || len(operands) > 0 {
			return fmt.Errorf("%w: nop takes no suffix or operand", ErrSyntax)
		}
		return p.Nop()
	case "ret":
		if len(parts) > 1 || len(operands) > 0 {
			return fmt.Errorf("%w: ret takes no suffix or operand", ErrSyntax)
		}
		return p.Ret()
	}

	op, ok := ir.ParseOpcode(parts[0])
	if !ok {
		return fmt.Errorf("%w: unknown mnemonic %q", ErrSyntax, parts[0])
	}

	h := p.AddInstruction(op)
	for _, suffix := range parts[1:] {
		if s, ok := ir.ParseSize(suffix); ok {
			h.Size(s)
			continue
		}
		if c, ok := ir.ParseCondition(suffix); ok {
			h.Cond(c)
			continue
		}
		return fmt.Errorf("%w: unknown suffix %q", ErrSyntax, suffix)
	}

	slots := make([]func(ir.Operand) *ir.Handle, 0, 2)
	info := op.Info()
	if info.AllowsOp1() {
		slots = append(slots, h.Op1)
	}
	if info.AllowsOp2() {
		slots = append(slots, h.Op2)
	}
	if len(operands) > len(slots) {
		return fmt.Errorf("%w: %s takes %d operands, got %d",
			ir.ErrInvalidOperand, op, len(slots), len(operands))
	}

	for i, text := range operands {
		o, err := ParseOperand(text)
		if err != nil {
			return err
		}
		slots[i](o)
	}
	return h.Err()
}

// ParseOperand reads a single operand.
func ParseOperand(text string) (ir.Operand, error) {
	switch {
	case text == "":
		return ir.Operand{}, fmt.Errorf("%w: empty operand", ErrSyntax)

	case strings.HasPrefix(text, "["):
		if !strings.HasSuffix(text, "]") {
			return ir.Operand{}, fmt.Errorf("%w: unterminated %q", ErrSyntax, text)
		}
		inner := strings.TrimSpace(text[1 : len(text)-1])
		r, ok := ir.ParseRegister(inner)
		if !ok {
			return ir.Operand{}, fmt.Errorf("%w: %q is not a register", ErrSyntax, inner)
		}
		return ir.Indirect(r), nil

	case strings.HasPrefix(text, "#"):
		v, err := strconv.ParseUint(text[1:], 0, 64)
		if err != nil {
			return ir.Operand{}, fmt.Errorf("%w: literal %q: %v", ErrSyntax, text, err)
		}
		return ir.Lit(v), nil
	}

	if r, ok := ir.ParseRegister(text); ok {
		return ir.Reg(r), nil
	}
	if !isIdent(text) {
		return ir.Operand{}, fmt.Errorf("%w: bad operand %q", ErrSyntax, text)
	}
	return ir.Sym(text), nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '.' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
