package ir

import (
	"fmt"
	"strings"
)

// Register is one of the eight general registers of the target machine,
// encoded in 3 bits.
type Register uint8

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
)

// Register aliases.
const (
	AR = R0 // accumulator
	CP = R6 // cell pointer
	LR = R7 // link register
)

var registerNames = [...]string{"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7"}

var registerAliases = map[string]Register{
	"AR": AR,
	"CP": CP,
	"LR": LR,
}

// Valid reports whether the register fits in the 3-bit register field.
func (r Register) Valid() bool {
	return int(r) < len(registerNames)
}

func (r Register) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Register(%d)", r)
	}
	return registerNames[r]
}

// ParseRegister accepts R0..R7 and the AR, CP and LR aliases, ignoring case.
func ParseRegister(name string) (Register, bool) {
	upper := strings.ToUpper(name)
	if r, ok := registerAliases[upper]; ok {
		return r, true
	}
	for i, n := range registerNames {
		if n == upper {
			return Register(i), true
		}
	}
	return 0, false
}
