package ir

import (
	"fmt"
	"strings"
)

// OperandSize is the 2-bit operand width tag.
type OperandSize uint8

const (
	Byte  OperandSize = 0b00
	HWord OperandSize = 0b01
	Word  OperandSize = 0b10
	DWord OperandSize = 0b11
)

// DefaultSize is encoded when a size-taking instruction leaves it unset.
const DefaultSize = Word

var sizeSuffixes = [...]string{"B", "H", "W", "D"}

func (s OperandSize) Valid() bool {
	return int(s) < len(sizeSuffixes)
}

// Bytes returns the width of a literal of this size: 1, 2, 4 or 8.
func (s OperandSize) Bytes() int {
	return 1 << s
}

func (s OperandSize) String() string {
	if !s.Valid() {
		return fmt.Sprintf("OperandSize(%d)", s)
	}
	return sizeSuffixes[s]
}

// ParseSize accepts the single-letter suffixes B, H, W and D, ignoring case.
func ParseSize(suffix string) (OperandSize, bool) {
	upper := strings.ToUpper(suffix)
	for s, n := range sizeSuffixes {
		if n == upper {
			return OperandSize(s), true
		}
	}
	return 0, false
}
