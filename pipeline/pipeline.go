// Package pipeline connects a front end, optional passes, the assembler and
// an outlet into one run from source text to output bytes.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/sarchlab/irasm/ir"
)

// Builder can build pipelines.
type Builder struct {
	registry  *Registry
	frontend  string
	passes    []string
	outlet    string
	assembler ir.Assembler
}

// MakeBuilder returns a builder that uses the default registry, the asm
// front end, the raw outlet and the default assembler.
func MakeBuilder() Builder {
	return Builder{
		frontend:  "asm",
		outlet:    "raw",
		assembler: ir.MakeAssemblerBuilder().Build(),
	}
}

// WithRegistry sets where components are looked up.
func (b Builder) WithRegistry(r *Registry) Builder {
	b.registry = r
	return b
}

// WithFrontend selects the front end by name or file extension alias.
func (b Builder) WithFrontend(name string) Builder {
	b.frontend = name
	return b
}

// WithPasses sets the passes to run, in order.
func (b Builder) WithPasses(names ...string) Builder {
	b.passes = append([]string(nil), names...)
	return b
}

// WithOutlet selects the outlet.
func (b Builder) WithOutlet(name string) Builder {
	b.outlet = name
	return b
}

// WithAssembler sets the assembler used between the passes and the outlet.
func (b Builder) WithAssembler(a ir.Assembler) Builder {
	b.assembler = a
	return b
}

// Build resolves every named component.
func (b Builder) Build() (*Pipeline, error) {
	registry := b.registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	p := &Pipeline{
		frontendName: b.frontend,
		outletName:   b.outlet,
		passNames:    b.passes,
		assembler:    b.assembler,
	}

	var err error
	if p.frontend, err = registry.Frontend(b.frontend); err != nil {
		return nil, err
	}
	for _, name := range b.passes {
		pass, err := registry.Pass(name)
		if err != nil {
			return nil, err
		}
		p.passes = append(p.passes, pass)
	}
	if p.outlet, err = registry.Outlet(b.outlet); err != nil {
		return nil, err
	}

	return p, nil
}

// Pipeline runs its stages strictly in order: parse, passes, assemble,
// deliver.
type Pipeline struct {
	frontendName string
	passNames    []string
	outletName   string

	frontend  Frontend
	passes    []Pass
	assembler ir.Assembler
	outlet    Outlet
}

// Flow reads source text from src and writes the delivered output to dst.
// ctx is checked before every stage. The assembled object is returned so the
// caller can write its symbols.
func (p *Pipeline) Flow(ctx context.Context, src io.Reader, dst io.Writer) (*ir.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog, err := p.frontend.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("frontend %s: %w", p.frontendName, err)
	}
	ir.Trace("StageDone", "stage", "frontend", "name", p.frontendName, "instructions", prog.Len())

	for i, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prog, err = pass.Run(prog)
		if err != nil {
			return nil, fmt.Errorf("pass %s: %w", p.passNames[i], err)
		}
		if prog == nil {
			return nil, fmt.Errorf("pass %s returned no program", p.passNames[i])
		}
		ir.Trace("StageDone", "stage", "pass", "name", p.passNames[i], "instructions", prog.Len())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obj, err := p.assembler.Assemble(prog)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.outlet.Deliver(dst, obj); err != nil {
		return nil, fmt.Errorf("outlet %s: %w", p.outletName, err)
	}
	ir.Trace("StageDone", "stage", "outlet", "name", p.outletName, "bytes", len(obj.Code))

	return obj, nil
}
