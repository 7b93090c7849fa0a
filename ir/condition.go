package ir

import (
	"fmt"
	"strings"
)

// Condition is a 4-bit condition code. Bit 3 set means "do not negate", so
// the all-zero nibble is NV (never).
type Condition uint8

const condKeep Condition = 0b1000

const (
	AL Condition = 0b1000 // always
	Z  Condition = 0b1001 // zero
	CS Condition = 0b1010 // carry set
	MI Condition = 0b1011 // negative
	VS Condition = 0b1100 // overflow
	HI Condition = 0b1101 // carry and not zero
	GE Condition = 0b1110 // signed greater or equal
	GT Condition = 0b1111 // signed greater than

	NV Condition = 0b0000 // never
	NZ Condition = 0b0001 // not zero
	CC Condition = 0b0010 // carry clear
	PL Condition = 0b0011 // positive
	VC Condition = 0b0100 // no overflow
	LS Condition = 0b0101 // unsigned lower or same
	LT Condition = 0b0110 // signed less than
	LE Condition = 0b0111 // signed less or equal
)

var conditionNames = [...]string{
	NV: "NV", NZ: "NZ", CC: "CC", PL: "PL",
	VC: "VC", LS: "LS", LT: "LT", LE: "LE",
	AL: "AL", Z: "Z", CS: "CS", MI: "MI",
	VS: "VS", HI: "HI", GE: "GE", GT: "GT",
}

// Valid reports whether the condition fits in 4 bits.
func (c Condition) Valid() bool {
	return int(c) < len(conditionNames)
}

// Base returns the 3-bit base condition selector.
func (c Condition) Base() uint8 {
	return uint8(c &^ condKeep)
}

// Negated reports whether the condition is the complement of its base.
func (c Condition) Negated() bool {
	return c&condKeep == 0
}

// Negate returns the complementary condition.
func (c Condition) Negate() Condition {
	return c ^ condKeep
}

func (c Condition) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Condition(%d)", c)
	}
	return conditionNames[c]
}

// ParseCondition looks up a condition mnemonic, ignoring case.
func ParseCondition(name string) (Condition, bool) {
	upper := strings.ToUpper(name)
	for c, n := range conditionNames {
		if n == upper {
			return Condition(c), true
		}
	}
	return 0, false
}
