package ir

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// Reference is a span of the code that names a symbol: a patched local
// label address or the inline bytes of an external name.
type Reference struct {
	Offset uint32 `cbor:"1,keyasint"`
	Symbol string `cbor:"2,keyasint"`
	Length uint32 `cbor:"3,keyasint"`
}

// Object is the result of assembling a Program: the packed code and the
// symbol bookkeeping a linker or disassembler needs to interpret it.
type Object struct {
	Code      []byte
	Encoding  ExternalEncoding
	Labels    map[string]uint32
	Fixups    []Reference
	Externals []Reference
}

// LabelsAt returns the labels bound to offset, sorted by name.
func (o *Object) LabelsAt(offset uint32) []string {
	var names []string
	for name, off := range o.Labels {
		if off == offset {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ExternalAt returns the external reference starting at offset.
func (o *Object) ExternalAt(offset uint32) (Reference, bool) {
	i := sort.Search(len(o.Externals), func(i int) bool {
		return o.Externals[i].Offset >= offset
	})
	if i < len(o.Externals) && o.Externals[i].Offset == offset {
		return o.Externals[i], true
	}
	return Reference{}, false
}

type symbolTable struct {
	Encoding  string            `cbor:"1,keyasint"`
	Labels    map[string]uint32 `cbor:"2,keyasint"`
	Fixups    []Reference       `cbor:"3,keyasint,omitempty"`
	Externals []Reference       `cbor:"4,keyasint,omitempty"`
}

// cborEncMode uses canonical options so that equal objects produce equal
// sidecars.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("ir: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalSymbols serializes everything but the code to CBOR.
func (o *Object) MarshalSymbols() ([]byte, error) {
	return cborEncMode.Marshal(symbolTable{
		Encoding:  o.Encoding.String(),
		Labels:    o.Labels,
		Fixups:    o.Fixups,
		Externals: o.Externals,
	})
}

// UnmarshalSymbols replaces the symbol bookkeeping of o with the sidecar in
// data. The code is left untouched.
func (o *Object) UnmarshalSymbols(data []byte) error {
	var t symbolTable
	if err := cbor.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("ir: unmarshal symbols: %w", err)
	}
	enc, err := ParseExternalEncoding(t.Encoding)
	if err != nil {
		return fmt.Errorf("ir: unmarshal symbols: %w", err)
	}

	o.Encoding = enc
	o.Labels = t.Labels
	if o.Labels == nil {
		o.Labels = make(map[string]uint32)
	}
	o.Fixups = t.Fixups
	o.Externals = t.Externals
	return nil
}
