package ir_test

import (
	"encoding/binary"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/irasm/ir"
	valgen "github.com/sarchlab/irasm/util"
)

// generate builds a pseudo-random program from seed. Equal seeds give
// structurally identical programs.
func generate(seed int64) *ir.Program {
	rng := rand.New(rand.NewSource(seed))
	nextLabel := valgen.MakeLabelGen("L")
	nextSize := valgen.MakeCycleGen(ir.Byte, ir.HWord, ir.Word, ir.DWord)
	nextOp := valgen.MakeCycleGen(ir.ADD, ir.SUB, ir.MOV, ir.AND, ir.CMP, ir.LSL)

	p := ir.NewProgram()
	var labels []string
	for i := 0; i < 40; i++ {
		if rng.Intn(4) == 0 {
			name := nextLabel()
			Expect(p.AddLabel(name)).To(Succeed())
			labels = append(labels, name)
		}

		reg := ir.Register(rng.Intn(8))
		switch rng.Intn(5) {
		case 0:
			Expect(p.Emit(nextOp(), ir.WithSize(nextSize()), ir.WithOp1(ir.Reg(reg)),
				ir.WithOp2(ir.Lit(rng.Uint64())))).To(Succeed())
		case 1:
			Expect(p.Emit(nextOp(), ir.WithOp1(ir.Indirect(reg)),
				ir.WithOp2(ir.Reg(ir.Register(rng.Intn(8)))))).To(Succeed())
		case 2:
			target := "ext"
			if len(labels) > 0 {
				target = labels[rng.Intn(len(labels))]
			}
			Expect(p.Emit(ir.JMP, ir.WithCond(ir.Condition(rng.Intn(16))), ir.WithOp2(ir.Sym(target)))).
				To(Succeed())
		case 3:
			Expect(p.Emit(ir.CALL, ir.WithOp2(ir.Sym("callee")))).To(Succeed())
		default:
			Expect(p.Nop()).To(Succeed())
		}
	}
	Expect(p.AddLabel(nextLabel())).To(Succeed())
	return p
}

var _ = Describe("Generated programs", func() {
	for seed := int64(1); seed <= 8; seed++ {

		It("should assemble deterministically", func() {
			first, err := generate(seed).Assemble()
			Expect(err).NotTo(HaveOccurred())
			second, err := generate(seed).Assemble()
			Expect(err).NotTo(HaveOccurred())

			Expect(first).To(Equal(second))
		})

		It("should patch every local reference with its label offset", func() {
			obj, err := ir.MakeAssemblerBuilder().Build().Assemble(generate(seed))
			Expect(err).NotTo(HaveOccurred())

			for _, f := range obj.Fixups {
				Expect(binary.LittleEndian.Uint32(obj.Code[f.Offset:])).To(Equal(obj.Labels[f.Symbol]))
			}
			for _, e := range obj.Externals {
				Expect(string(obj.Code[e.Offset : e.Offset+e.Length])).To(Equal(e.Symbol))
			}
		})
	}
})
