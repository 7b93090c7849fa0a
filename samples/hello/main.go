package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sarchlab/irasm/ir"
	"github.com/tebeka/atexit"
)

func helloProgram() *ir.Program {
	p := ir.NewProgram()

	must(p.AddLabel("main"))
	p.AddInstruction(ir.MOV).Size(ir.Word).Op1(ir.Reg(ir.AR)).Op2(ir.Sym("greeting"))
	p.AddInstruction(ir.CALL).Op2(ir.Sym("puts"))
	p.AddInstruction(ir.JMP).Cond(ir.Z).Op2(ir.Sym("done"))
	p.AddInstruction(ir.XOR).Size(ir.Word).Op1(ir.Reg(ir.AR)).Op2(ir.Reg(ir.AR))
	must(p.AddLabel("done"))
	must(p.Ret())
	must(p.AddLabel("greeting"))

	must(p.Err())
	return p
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	p := helloProgram()

	fmt.Println(p.Tree().String())
	if err := p.WriteListing(os.Stdout); err != nil {
		panic(err)
	}

	obj, err := ir.MakeAssemblerBuilder().
		WithExternalEncoding(ir.ExternalLengthPrefixed).
		Build().
		Assemble(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Print(hex.Dump(obj.Code))

	atexit.Exit(0)
}
