package ir_test

import (
	"bytes"
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/irasm/ir"
)

var _ = Describe("Trace", func() {
	It("should stay below the debug level", func() {
		Expect(ir.LevelTrace < slog.LevelDebug).To(BeTrue())
	})

	It("should be dropped by a handler at the info level", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		Expect(logger.Enabled(context.Background(), ir.LevelTrace)).To(BeFalse())
	})

	It("should log when the default handler enables it", func() {
		prev := slog.Default()
		defer slog.SetDefault(prev)

		var buf bytes.Buffer
		slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: ir.LevelTrace})))
		ir.Trace("Fixup", "at", 3)

		Expect(buf.String()).To(ContainSubstring("msg=Fixup"))
	})
})
