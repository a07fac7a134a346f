// Command lc3as assembles LC-3 source into the canonical object image
// format.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/venkatpvc25/vm/config"
	"github.com/venkatpvc25/vm/encoder"
	"github.com/venkatpvc25/vm/loader"
	"github.com/venkatpvc25/vm/parser"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lc3as", flag.ContinueOnError)
	output := fs.String("o", "", "output object file (default: input with .obj extension)")
	configPath := fs.String("config", "", "path to config.toml (default: platform config directory)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lc3as <file.asm> [-o out.obj] [-config path]")
		return 1
	}
	inputPath := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3as: %v\n", err)
		return 1
	}

	src, err := os.ReadFile(inputPath) // #nosec G304 -- user-supplied assembler input
	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3as: %v\n", err)
		return 1
	}

	p := parser.NewParser(inputPath)
	program, errs := p.Parse(string(src))
	if errs.HasErrors() {
		printDiagnostics(errs)
		return 2
	}

	enc := encoder.NewEncoder(program.Symbols)
	enc.PermissiveRanges = !cfg.Assembler.StrictRanges
	segments, encErrs := enc.Encode(program)
	if encErrs.HasErrors() {
		printDiagnostics(encErrs)
		return 2
	}
	for _, w := range encErrs.Warnings {
		fmt.Fprintf(os.Stderr, "%s: warning: %s\n", w.Pos, w.Message)
	}

	if cfg.Assembler.WarnUnusedLabel {
		for _, w := range program.CheckUnusedLabels() {
			fmt.Fprintf(os.Stderr, "%s: warning: %s\n", w.Pos, w.Message)
		}
	}

	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".obj"
	}

	out, err := os.Create(outPath) // #nosec G304 -- user-specified assembler output
	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3as: %v\n", err)
		return 1
	}
	defer out.Close()

	img := toImage(segments)
	if err := loader.WriteImage(out, img); err != nil {
		fmt.Fprintf(os.Stderr, "lc3as: %v\n", err)
		return 1
	}

	return 0
}

func toImage(segments []*encoder.Segment) loader.Image {
	img := make(loader.Image, len(segments))
	for i, seg := range segments {
		img[i] = loader.Segment{Origin: seg.Origin, Words: seg.Words}
	}
	return img
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func printDiagnostics(errs *parser.ErrorList) {
	for _, e := range errs.Errors {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	for _, w := range errs.Warnings {
		fmt.Fprintf(os.Stderr, "%s: warning: %s\n", w.Pos, w.Message)
	}
}
