package main

import (
	"flag"
	"fmt"

	"gtirb"
)

func cmdUpgrade(args []string) error {
	fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
	in := fs.String("in", "", "input GTIRB file")
	out := fs.String("out", "", "output GTIRB file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("--in and --out are required")
	}
	if err := gtirb.Upgrade(*in, *out); err != nil {
		return err
	}
	fmt.Printf("wrote %s at schema version %d\n", *out, gtirb.CurrentVersion)
	return nil
}
