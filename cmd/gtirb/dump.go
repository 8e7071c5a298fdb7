package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gtirb"
)

// sectionEntry and symbolEntry shape the JSON dump.
type sectionEntry struct {
	Name    string `json:"name"`
	Address uint64 `json:"address,omitempty"`
	Size    uint64 `json:"size,omitempty"`
	Blocks  int    `json:"blocks"`
}

type symbolEntry struct {
	Name    string `json:"name"`
	Address uint64 `json:"address,omitempty"`
	UUID    string `json:"uuid"`
}

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	in := fs.String("in", "", "input GTIRB file")
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}

	ctx := gtirb.NewContext()
	ir, diags, err := gtirb.ReadIRFile(ctx, *in)
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}

	for _, m := range ir.Modules() {
		var sections []sectionEntry
		for _, s := range m.Sections() {
			e := sectionEntry{Name: s.Name(), Blocks: len(s.Blocks())}
			if a, ok := s.Address(); ok {
				e.Address = uint64(a)
			}
			if sz, ok := s.Size(); ok {
				e.Size = sz
			}
			sections = append(sections, e)
		}
		var symbols []symbolEntry
		for _, s := range m.Symbols() {
			e := symbolEntry{Name: s.Name(), UUID: s.UUID().String()}
			if a, ok := s.Address(); ok {
				e.Address = uint64(a)
			}
			symbols = append(symbols, e)
		}

		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(map[string]any{
				"module":   m.Name(),
				"sections": sections,
				"symbols":  symbols,
			}); err != nil {
				return err
			}
			continue
		}

		fmt.Printf("module %q\n", m.Name())
		for _, e := range sections {
			fmt.Printf("  section %-20s 0x%x+0x%x  %d blocks\n", e.Name, e.Address, e.Size, e.Blocks)
		}
		for _, e := range symbols {
			fmt.Printf("  symbol  %-20s 0x%x\n", e.Name, e.Address)
		}
	}
	return nil
}
