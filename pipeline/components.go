package pipeline

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/sarchlab/irasm/asmtext"
	"github.com/sarchlab/irasm/disasm"
	"github.com/sarchlab/irasm/ir"
)

// TextFrontend parses the assembly text form.
type TextFrontend struct{}

func (TextFrontend) Parse(r io.Reader) (*ir.Program, error) {
	return asmtext.Parse(r)
}

// RawOutlet writes the code bytes as they are.
type RawOutlet struct{}

func (RawOutlet) Deliver(w io.Writer, obj *ir.Object) error {
	_, err := w.Write(obj.Code)
	return err
}

// HexOutlet writes a canonical hex dump of the code.
type HexOutlet struct{}

func (HexOutlet) Deliver(w io.Writer, obj *ir.Object) error {
	d := hex.Dumper(w)
	if _, err := d.Write(obj.Code); err != nil {
		return err
	}
	return d.Close()
}

// ListingOutlet disassembles the code with the object's symbols.
type ListingOutlet struct{}

func (ListingOutlet) Deliver(w io.Writer, obj *ir.Object) error {
	lines, err := disasm.Decode(obj.Code, obj)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, disasm.Listing(lines)); err != nil {
		return err
	}
	for _, name := range obj.LabelsAt(uint32(len(obj.Code))) {
		if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
			return err
		}
	}
	return nil
}
