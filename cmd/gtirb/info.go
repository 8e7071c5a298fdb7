package main

import (
	"flag"
	"fmt"
	"os"

	"gtirb"
)

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	in := fs.String("in", "", "input GTIRB file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	version, err := gtirb.FileVersion(f)
	f.Close()
	if err != nil {
		return err
	}
	fmt.Printf("file version: %d (current %d)\n", version, gtirb.CurrentVersion)

	ctx := gtirb.NewContext()
	ir, diags, err := gtirb.ReadIRFile(ctx, *in)
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}

	fmt.Printf("IR %s, %d modules, %d CFG edges, auxdata %v\n",
		ir.UUID(), len(ir.Modules()), ir.CFG().EdgeCount(), ir.AuxDataNames())
	for _, m := range ir.Modules() {
		var nblocks int
		for _, s := range m.Sections() {
			nblocks += len(s.Blocks())
		}
		fmt.Printf("  module %q: %s %s, %d sections, %d symbols, %d blocks, %d proxies\n",
			m.Name(), m.FileFormat(), m.ISA(),
			len(m.Sections()), len(m.Symbols()), nblocks, len(m.ProxyBlocks()))
	}
	return nil
}
