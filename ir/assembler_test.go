package ir_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/irasm/ir"
)

func scenarioA() *ir.Program {
	p := ir.NewProgram()
	Expect(p.AddLabel("main")).To(Succeed())
	Expect(p.AddInstruction(ir.MOV).Size(ir.Word).Op1(ir.Reg(ir.R0)).Op2(ir.Indirect(ir.R1)).Err()).
		To(Succeed())
	Expect(p.AddInstruction(ir.JMP).Cond(ir.AL).Op2(ir.Sym("main")).Err()).To(Succeed())
	return p
}

func assemble(p *ir.Program) []byte {
	code, err := p.Assemble()
	Expect(err).NotTo(HaveOccurred())
	return code
}

var _ = Describe("Assembler", func() {
	var p *ir.Program

	BeforeEach(func() {
		p = ir.NewProgram()
	})

	It("should assemble a local jump", func() {
		code := assemble(scenarioA())

		Expect(code).To(Equal([]byte{
			0xD2, 0x81, // MOV.W R0, [R1]
			0x04, 0x80, // JMP.AL
			0x00, 0x00, 0x00, 0x00, // main
		}))
	})

	It("should inline external symbol names", func() {
		Expect(p.AddInstruction(ir.CALL).Op2(ir.Sym("printf")).Err()).To(Succeed())

		code := assemble(p)

		Expect(code).To(Equal(append([]byte{0xE4}, "printf"...)))
	})

	It("should default the jump condition to always", func() {
		Expect(p.AddInstruction(ir.JMP).Op2(ir.Reg(ir.R1)).Err()).To(Succeed())

		code := assemble(p)

		Expect(code).To(Equal([]byte{0x00, 0x82}))
		Expect(code[1] >> 4).To(Equal(byte(ir.AL)))
	})

	It("should default the operand size to word", func() {
		Expect(p.AddInstruction(ir.MOV).Op1(ir.Reg(ir.R1)).Op2(ir.Lit(5)).Err()).To(Succeed())

		Expect(assemble(p)).To(Equal([]byte{0xD6, 0x88, 0x05, 0x00, 0x00, 0x00}))
	})

	Context("literal width", func() {
		It("should emit the low byte for BYTE", func() {
			Expect(p.AddInstruction(ir.ADD).Size(ir.Byte).Op1(ir.Reg(ir.R0)).Op2(ir.Lit(0x1FF)).Err()).
				To(Succeed())

			Expect(assemble(p)).To(Equal([]byte{0x16, 0x00, 0xFF}))
		})

		It("should emit two bytes for HWORD", func() {
			Expect(p.AddInstruction(ir.SUB).Size(ir.HWord).Op1(ir.Reg(ir.R0)).Op2(ir.Lit(0xABCD)).Err()).
				To(Succeed())

			Expect(assemble(p)).To(Equal([]byte{0x26, 0x40, 0xCD, 0xAB}))
		})

		It("should emit eight bytes for DWORD", func() {
			Expect(p.AddInstruction(ir.ADD).Size(ir.DWord).Op1(ir.Reg(ir.R2)).
				Op2(ir.Lit(0x0102030405060708)).Err()).To(Succeed())

			Expect(assemble(p)).To(Equal([]byte{
				0x16, 0xD0,
				0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
			}))
		})
	})

	It("should encode the pseudo instructions", func() {
		Expect(p.Nop()).To(Succeed())
		Expect(p.Ret()).To(Succeed())

		Expect(assemble(p)).To(Equal([]byte{
			0x06, 0x00, 0x00, // JMP.NV #0
			0x00, 0x8E, // JMP.AL LR
		}))
	})

	It("should reject a jump literal wider than one byte", func() {
		h := p.AddInstruction(ir.JMP).Op2(ir.Lit(0x1234))
		Expect(h.Err()).To(MatchError(ir.ErrUnsupportedEncoding))

		code, err := p.Assemble()
		Expect(err).To(MatchError(ir.ErrUnsupportedEncoding))
		Expect(code).To(BeNil())
	})

	It("should keep a one-byte jump literal", func() {
		Expect(p.Emit(ir.JMP, ir.WithCond(ir.Z), ir.WithOp2(ir.Lit(0xFF)))).To(Succeed())

		Expect(assemble(p)).To(Equal([]byte{0x06, 0x90, 0xFF}))
	})

	It("should encode an indirect op1", func() {
		Expect(p.AddInstruction(ir.NOT).Size(ir.Byte).Op1(ir.Indirect(ir.R3)).Err()).To(Succeed())

		Expect(assemble(p)).To(Equal([]byte{0xA8, 0x18}))
	})

	It("should resolve every label to the offset of its instruction", func() {
		Expect(p.AddLabel("start")).To(Succeed())
		Expect(p.Emit(ir.MOV, ir.WithSize(ir.Byte), ir.WithOp1(ir.Reg(ir.R0)), ir.WithOp2(ir.Lit(1)))).
			To(Succeed())
		Expect(p.AddLabel("loop")).To(Succeed())
		Expect(p.Emit(ir.SUB, ir.WithSize(ir.Byte), ir.WithOp1(ir.Reg(ir.R0)), ir.WithOp2(ir.Lit(1)))).
			To(Succeed())
		Expect(p.Emit(ir.JMP, ir.WithCond(ir.NZ), ir.WithOp2(ir.Sym("loop")))).To(Succeed())
		Expect(p.Emit(ir.JMP, ir.WithOp2(ir.Sym("end")))).To(Succeed())
		Expect(p.AddLabel("end")).To(Succeed())

		obj, err := ir.MakeAssemblerBuilder().Build().Assemble(p)
		Expect(err).NotTo(HaveOccurred())

		Expect(obj.Code).To(HaveLen(18))
		Expect(obj.Labels).To(Equal(map[string]uint32{"start": 0, "loop": 3, "end": 18}))
		Expect(obj.Fixups).To(Equal([]ir.Reference{
			{Offset: 8, Symbol: "loop", Length: 4},
			{Offset: 14, Symbol: "end", Length: 4},
		}))
		for _, f := range obj.Fixups {
			Expect(binary.LittleEndian.Uint32(obj.Code[f.Offset:])).To(Equal(obj.Labels[f.Symbol]))
		}
		Expect(obj.Externals).To(BeEmpty())
	})

	It("should produce identical bytes for identical programs", func() {
		first := assemble(scenarioA())
		second := assemble(scenarioA())

		Expect(first).To(Equal(second))
	})

	It("should reassemble a sealed program to the same bytes", func() {
		p = scenarioA()
		first := assemble(p)

		Expect(assemble(p)).To(Equal(first))
	})

	It("should refuse a program with build errors", func() {
		p.AddInstruction(ir.ADD).Cond(ir.Z)

		code, err := p.Assemble()
		Expect(err).To(MatchError(ir.ErrInvalidOperand))
		Expect(code).To(BeNil())
		Expect(p.Sealed()).To(BeFalse())
	})

	It("should record external references", func() {
		Expect(p.Emit(ir.CALL, ir.WithOp2(ir.Sym("puts")))).To(Succeed())
		Expect(p.Ret()).To(Succeed())

		obj, err := ir.MakeAssemblerBuilder().Build().Assemble(p)
		Expect(err).NotTo(HaveOccurred())

		Expect(obj.Externals).To(Equal([]ir.Reference{{Offset: 1, Symbol: "puts", Length: 4}}))
		ref, ok := obj.ExternalAt(1)
		Expect(ok).To(BeTrue())
		Expect(ref.Symbol).To(Equal("puts"))
		_, ok = obj.ExternalAt(0)
		Expect(ok).To(BeFalse())
	})

	Context("with externals disallowed", func() {
		It("should fail on unknown symbols", func() {
			Expect(p.Emit(ir.CALL, ir.WithOp2(ir.Sym("printf")))).To(Succeed())

			obj, err := ir.MakeAssemblerBuilder().WithExternals(false).Build().Assemble(p)
			Expect(err).To(MatchError(ir.ErrUndefinedSymbol))
			Expect(obj).To(BeNil())
		})

		It("should leave the program open after a failed assembly", func() {
			asm := ir.MakeAssemblerBuilder().WithExternals(false).Build()
			Expect(p.Emit(ir.CALL, ir.WithOp2(ir.Sym("later")))).To(Succeed())

			_, err := asm.Assemble(p)
			Expect(err).To(MatchError(ir.ErrUndefinedSymbol))
			Expect(p.Sealed()).To(BeFalse())

			Expect(p.AddLabel("later")).To(Succeed())
			Expect(p.Ret()).To(Succeed())

			obj, err := asm.Assemble(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Sealed()).To(BeTrue())
			Expect(obj.Code).To(Equal([]byte{0xE4, 0x05, 0x00, 0x00, 0x00, 0x00, 0x8E}))
		})

		It("should still resolve local labels", func() {
			obj, err := ir.MakeAssemblerBuilder().WithExternals(false).Build().Assemble(scenarioA())
			Expect(err).NotTo(HaveOccurred())
			Expect(obj.Code).To(HaveLen(8))
		})
	})

	Context("with length-prefixed symbols", func() {
		var asm ir.Assembler

		BeforeEach(func() {
			asm = ir.MakeAssemblerBuilder().WithExternalEncoding(ir.ExternalLengthPrefixed).Build()
		})

		It("should prefix externals with their length", func() {
			Expect(p.Emit(ir.CALL, ir.WithOp2(ir.Sym("printf")))).To(Succeed())

			obj, err := asm.Assemble(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(obj.Code).To(Equal(append([]byte{0xE4, 0x06}, "printf"...)))
			Expect(obj.Encoding).To(Equal(ir.ExternalLengthPrefixed))
		})

		It("should prefix local labels with zero", func() {
			Expect(p.AddLabel("main")).To(Succeed())
			Expect(p.Emit(ir.JMP, ir.WithOp2(ir.Sym("main")))).To(Succeed())

			obj, err := asm.Assemble(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(obj.Code).To(Equal([]byte{0x04, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00}))
			Expect(obj.Fixups[0].Offset).To(Equal(uint32(3)))
		})

		It("should reject names longer than a prefix can hold", func() {
			long := make([]byte, 256)
			for i := range long {
				long[i] = 'x'
			}
			Expect(p.Emit(ir.CALL, ir.WithOp2(ir.Sym(string(long))))).To(Succeed())

			_, err := asm.Assemble(p)
			Expect(err).To(MatchError(ir.ErrUnsupportedEncoding))
		})
	})

	It("should parse external encoding names", func() {
		e, err := ir.ParseExternalEncoding("prefixed")
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(Equal(ir.ExternalLengthPrefixed))
		Expect(e.String()).To(Equal("prefixed"))

		_, err = ir.ParseExternalEncoding("zstd")
		Expect(err).To(HaveOccurred())
	})
})
