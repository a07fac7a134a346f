// Command lc3vm loads an LC-3 object image and executes it against the
// terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/venkatpvc25/vm/config"
	"github.com/venkatpvc25/vm/loader"
	"github.com/venkatpvc25/vm/vm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lc3vm", flag.ContinueOnError)
	maxCycles := fs.Uint64("max-cycles", 0, "stop after N instructions (0: use config default)")
	tracePath := fs.String("trace", "", "write a per-instruction execution trace to this file")
	configPath := fs.String("config", "", "path to config.toml (default: platform config directory)")
	entry := fs.Uint("entry", 0, "override the entry point address (default: first segment's origin)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lc3vm <file.obj> [-max-cycles N] [-trace file] [-config path]")
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
		return 1
	}

	f, err := os.Open(fs.Arg(0)) // #nosec G304 -- user-supplied object image
	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
		return 1
	}
	img, err := loader.ReadImage(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
		return 1
	}
	if len(img) == 0 {
		fmt.Fprintln(os.Stderr, "lc3vm: object image has no segments")
		return 1
	}

	var raw *vm.RawTerminal
	if cfg.Execution.StartInRawMode {
		raw, err = vm.EnterRawMode(int(os.Stdin.Fd()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
			return 1
		}
		defer raw.Restore()
	}

	machine := vm.NewVM(os.Stdin, os.Stdout)
	machine.LEASetsFlags = cfg.Execution.LEASetsFlags
	if cfg.Execution.DefaultOrigin != 0 {
		machine.DefaultOrigin = cfg.Execution.DefaultOrigin
	}

	cycles := *maxCycles
	if cycles == 0 {
		cycles = cfg.Execution.MaxCycles
	}
	machine.MaxCycles = cycles

	traceFile, err := attachTrace(machine, *tracePath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
		return 1
	}
	if traceFile != nil {
		defer traceFile.Close()
	}

	entryAddr := uint16(*entry)
	if entryAddr == 0 {
		entryAddr = img[0].Origin
	}
	machine.Load(toSegments(img), entryAddr)

	if err := machine.Run(); err != nil {
		raw.Restore()
		fmt.Fprintf(os.Stderr, "lc3vm: %v\n", err)
		return 1
	}

	return 0
}

func toSegments(img loader.Image) []vm.Segment {
	segs := make([]vm.Segment, len(img))
	for i, s := range img {
		segs[i] = vm.Segment{Origin: s.Origin, Words: s.Words}
	}
	return segs
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func attachTrace(machine *vm.VM, path string, cfg *config.Config) (*os.File, error) {
	if path == "" {
		if !cfg.Execution.EnableTrace {
			return nil, nil
		}
		path = cfg.Trace.OutputFile
	}

	f, err := os.Create(path) // #nosec G304 -- user/config-specified trace output
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	machine.Trace = func(cpu *vm.CPU, inst vm.DecodedInstruction) {
		fmt.Fprintf(f, "cycle=%d pc=%#04x cond=%#x inst=%T\n", cpu.Cycles, cpu.PC, cpu.Cond, inst)
	}
	return f, nil
}
