package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zboralski/lattice/render"

	"gtirb"
	"gtirb/internal/callgraph"
)

func cmdGraph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	in := fs.String("in", "", "input GTIRB file")
	out := fs.String("out", "", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("--in and --out are required")
	}

	ctx := gtirb.NewContext()
	ir, diags, err := gtirb.ReadIRFile(ctx, *in)
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}
	if err := os.MkdirAll(*out, 0755); err != nil {
		return err
	}

	cg := callgraph.BuildGraph(ir)
	dot := render.DOT(cg, filepath.Base(*in))
	if err := os.WriteFile(filepath.Join(*out, "callgraph.dot"), []byte(dot), 0644); err != nil {
		return err
	}

	cfg := callgraph.BuildCFG(ir)
	cfgDot := render.DOTCFG(cfg, filepath.Base(*in))
	if err := os.WriteFile(filepath.Join(*out, "cfg.dot"), []byte(cfgDot), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s and %s\n",
		filepath.Join(*out, "callgraph.dot"), filepath.Join(*out, "cfg.dot"))
	return nil
}
