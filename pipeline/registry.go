package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sarchlab/irasm/ir"
	"github.com/sarchlab/irasm/verify"
)

// Frontend turns source text into a program.
type Frontend interface {
	Parse(r io.Reader) (*ir.Program, error)
}

// Pass rewrites a program between the front end and the assembler.
type Pass interface {
	Run(p *ir.Program) (*ir.Program, error)
}

// Outlet writes an assembled object in some output format.
type Outlet interface {
	Deliver(w io.Writer, obj *ir.Object) error
}

type (
	FrontendFactory func() Frontend
	PassFactory     func() Pass
	OutletFactory   func() Outlet
)

// components maps unique names to factories of one component kind.
type components[F any] struct {
	kind      string
	factories map[string]F
	primary   []string
}

func newComponents[F any](kind string) components[F] {
	return components[F]{
		kind:      kind,
		factories: make(map[string]F),
	}
}

func (c *components[F]) register(f F, name string, aliases ...string) error {
	names := append([]string{name}, aliases...)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%s component name is empty", c.kind)
		}
		if seen[n] {
			return fmt.Errorf("%s component %s is listed twice", c.kind, n)
		}
		seen[n] = true
		if _, taken := c.factories[n]; taken {
			return fmt.Errorf("%s component %s is already registered", c.kind, n)
		}
	}

	for _, n := range names {
		c.factories[n] = f
	}
	c.primary = append(c.primary, name)
	return nil
}

func (c *components[F]) get(name string) (F, error) {
	f, ok := c.factories[name]
	if !ok {
		var zero F
		return zero, fmt.Errorf("%s component %s is not registered", c.kind, name)
	}
	return f, nil
}

func (c *components[F]) names() []string {
	out := append([]string(nil), c.primary...)
	sort.Strings(out)
	return out
}

// Registry holds the components a pipeline can be assembled from. It is an
// ordinary value; create one at startup and hand it to the builder.
type Registry struct {
	frontends components[FrontendFactory]
	passes    components[PassFactory]
	outlets   components[OutletFactory]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		frontends: newComponents[FrontendFactory]("frontend"),
		passes:    newComponents[PassFactory]("pass"),
		outlets:   newComponents[OutletFactory]("outlet"),
	}
}

// RegisterFrontend registers f under name and every alias. Aliases starting
// with a dot are file extensions used by FrontendForPath. No name is
// registered if any of them is taken.
func (r *Registry) RegisterFrontend(name string, f FrontendFactory, aliases ...string) error {
	return r.frontends.register(f, name, aliases...)
}

// RegisterPass registers a pass.
func (r *Registry) RegisterPass(name string, f PassFactory) error {
	return r.passes.register(f, name)
}

// RegisterOutlet registers an outlet.
func (r *Registry) RegisterOutlet(name string, f OutletFactory) error {
	return r.outlets.register(f, name)
}

// Frontend creates the front end registered as name.
func (r *Registry) Frontend(name string) (Frontend, error) {
	f, err := r.frontends.get(name)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// FrontendForPath picks a front end by the extension of path.
func (r *Registry) FrontendForPath(path string) (Frontend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, fmt.Errorf("cannot select a frontend for %s: no file extension", path)
	}
	return r.Frontend(ext)
}

// Pass creates the pass registered as name.
func (r *Registry) Pass(name string) (Pass, error) {
	f, err := r.passes.get(name)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// Outlet creates the outlet registered as name.
func (r *Registry) Outlet(name string) (Outlet, error) {
	f, err := r.outlets.get(name)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// Frontends lists the primary names of the registered front ends.
func (r *Registry) Frontends() []string { return r.frontends.names() }

// Passes lists the registered passes.
func (r *Registry) Passes() []string { return r.passes.names() }

// Outlets lists the registered outlets.
func (r *Registry) Outlets() []string { return r.outlets.names() }

// DefaultRegistry returns a registry with the assembly text front end, the
// lint passes and the raw, hex and listing outlets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	mustRegister(r.RegisterFrontend("asm", func() Frontend { return TextFrontend{} }, ".s", ".asm"))
	mustRegister(r.RegisterPass("lint", func() Pass {
		return verify.LintPass{Options: verify.DefaultOptions()}
	}))
	mustRegister(r.RegisterPass("lint-strict", func() Pass {
		return verify.LintPass{Options: verify.DefaultOptions(), Strict: true}
	}))
	mustRegister(r.RegisterOutlet("raw", func() Outlet { return RawOutlet{} }))
	mustRegister(r.RegisterOutlet("hex", func() Outlet { return HexOutlet{} }))
	mustRegister(r.RegisterOutlet("listing", func() Outlet { return ListingOutlet{} }))
	return r
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
