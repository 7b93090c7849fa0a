package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/irasm/pipeline"
	"github.com/tebeka/atexit"
)

//go:embed countdown.asm
var countdownSource string

func main() {
	p, err := pipeline.MakeBuilder().
		WithPasses("lint").
		WithOutlet("listing").
		Build()
	if err != nil {
		panic(err)
	}

	obj, err := p.Flow(context.Background(), strings.NewReader(countdownSource), os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Printf("\n%d bytes, labels %v, externals %v\n", len(obj.Code), obj.Labels, obj.Externals)

	atexit.Exit(0)
}
