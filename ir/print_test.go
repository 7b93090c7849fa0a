package ir_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/irasm/ir"
)

var _ = Describe("Printer", func() {
	DescribeTable("instruction text",
		func(build func(p *ir.Program), want string) {
			p := ir.NewProgram()
			build(p)
			Expect(p.Err()).NotTo(HaveOccurred())
			Expect(p.Instruction(0).String()).To(Equal(want))
		},
		Entry("move", func(p *ir.Program) {
			p.AddInstruction(ir.MOV).Size(ir.Word).Op1(ir.Reg(ir.R0)).Op2(ir.Indirect(ir.R1))
		}, "MOV.W R0, [R1]"),
		Entry("jump", func(p *ir.Program) {
			p.AddInstruction(ir.JMP).Cond(ir.AL).Op2(ir.Sym("main"))
		}, "JMP.AL main"),
		Entry("call", func(p *ir.Program) {
			p.AddInstruction(ir.CALL).Op2(ir.Sym("printf"))
		}, "CALL printf"),
		Entry("literal", func(p *ir.Program) {
			p.AddInstruction(ir.ADD).Size(ir.Byte).Op1(ir.Reg(ir.R0)).Op2(ir.Lit(16))
		}, "ADD.B R0, #0x10"),
		Entry("return", func(p *ir.Program) { _ = p.Ret() }, "RET"),
		Entry("no-op", func(p *ir.Program) { _ = p.Nop() }, "NOP"),
		Entry("unsized", func(p *ir.Program) {
			p.AddInstruction(ir.NOT).Op1(ir.Reg(ir.LR))
		}, "NOT R7"),
	)

	It("should print labels on their own lines", func() {
		p := scenarioA()
		Expect(p.AddLabel("end")).To(Succeed())

		Expect(p.String()).To(Equal("main:\n\tMOV.W R0, [R1]\n\tJMP.AL main\nend:\n"))
	})

	It("should write a listing table", func() {
		var buf bytes.Buffer

		Expect(scenarioA().WriteListing(&buf)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("Program (2 instructions, 1 labels)"))
		Expect(out).To(ContainSubstring("MOV"))
		Expect(out).To(ContainSubstring("[R1]"))
		Expect(out).To(ContainSubstring("main"))
	})

	It("should render a tree grouped by label", func() {
		p := ir.NewProgram()
		Expect(p.Nop()).To(Succeed())
		Expect(p.AddLabel("body")).To(Succeed())
		Expect(p.Emit(ir.MOV, ir.WithOp1(ir.Reg(ir.R2)), ir.WithOp2(ir.Lit(3)))).To(Succeed())

		out := p.Tree().String()
		Expect(out).To(ContainSubstring("program (2 instructions)"))
		Expect(out).To(ContainSubstring("NOP"))
		Expect(out).To(ContainSubstring("body:"))
		Expect(out).To(ContainSubstring("[op2 literal]  #0x3"))
	})

	It("should render one instruction as a tree", func() {
		p := scenarioA()

		out := p.Instruction(0).Tree().String()
		Expect(out).To(ContainSubstring("MOV.W R0, [R1]"))
		Expect(out).To(ContainSubstring("[size]  W"))
		Expect(out).To(ContainSubstring("[op2 indirect]  [R1]"))
	})
})

var _ = Describe("Object", func() {
	var obj *ir.Object

	BeforeEach(func() {
		p := scenarioA()
		Expect(p.Emit(ir.CALL, ir.WithOp2(ir.Sym("exit")))).To(Succeed())
		Expect(p.AddLabel("end")).To(Succeed())

		var err error
		obj, err = ir.MakeAssemblerBuilder().Build().Assemble(p)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should list labels by offset", func() {
		Expect(obj.LabelsAt(0)).To(Equal([]string{"main"}))
		Expect(obj.LabelsAt(uint32(len(obj.Code)))).To(Equal([]string{"end"}))
		Expect(obj.LabelsAt(1)).To(BeEmpty())
	})

	It("should carry its symbols in a CBOR sidecar", func() {
		data, err := obj.MarshalSymbols()
		Expect(err).NotTo(HaveOccurred())

		again, err := obj.MarshalSymbols()
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(data))

		loaded := &ir.Object{Code: obj.Code}
		Expect(loaded.UnmarshalSymbols(data)).To(Succeed())
		Expect(loaded).To(Equal(obj))
	})

	It("should reject a corrupt sidecar", func() {
		loaded := &ir.Object{}
		Expect(loaded.UnmarshalSymbols([]byte{0xFF})).NotTo(Succeed())
	})
})
