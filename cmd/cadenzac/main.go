// Command cadenzac is a minimal, illustrative one-file-in, one-file-out
// driver over the core (§1 places the CLI driver itself out of scope).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cadenzalang/cadenza"
)

func main() {
	var outputFile string
	flag.StringVar(&outputFile, "o", "", "output file path (defaults to <input>.cs)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cadenzac [-o output.cs] <input.cdz>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	inputFile := flag.Arg(0)
	data, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	code, err := cadenza.Compile(string(data))
	if err != nil {
		fmt.Printf("Compile Error: %v\n", err)
		os.Exit(1)
	}

	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = inputFile[:len(inputFile)-len(ext)] + ".cs"
	}

	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.WriteFile(outputFile, []byte(code), 0644); err != nil {
		fmt.Printf("Error writing output file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s successfully\n", outputFile)
}
