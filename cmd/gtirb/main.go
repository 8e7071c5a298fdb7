package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = cmdInfo(os.Args[2:])
	case "dump":
		err = cmdDump(os.Args[2:])
	case "graph":
		err = cmdGraph(os.Args[2:])
	case "upgrade":
		err = cmdUpgrade(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `gtirb — inspect and migrate GTIRB files

Usage:
  gtirb info    --in <file>                Print envelope and module summary
  gtirb dump    --in <file> [--json]       Dump sections, symbols, and blocks
  gtirb graph   --in <file> --out <dir>    Emit call graph and CFG as DOT
  gtirb upgrade --in <file> --out <file>   Migrate a file to the current schema

Flags:
  --in <file>        Input GTIRB file
  --out <path>       Output file or directory
  --json             Output as JSON
`)
}
