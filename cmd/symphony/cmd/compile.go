package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jorgelmarquez94/symphony/internal/parser"
	"github.com/spf13/cobra"
)

var (
	compileOutputFile string
	disassemble       bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a Symphony file to a .note quadruple file",
	Long: `Compile parses a Symphony program and writes its quadruple listing
to a .note file (the source filename with its extension replaced), the
same cache format pkg/symphony's note cache reads and writes.

Examples:
  symphony compile script.sym
  symphony compile script.sym -o out.note
  symphony compile script.sym --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutputFile, "output", "o", "", "output file (default: <input>.note)")
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print the disassembled quadruples after compiling")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	program, err := parser.New(input).Parse()
	if err != nil {
		return reportCompileError(err, input, filename)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "  Quadruples: %d\n", len(program.Quads))
		fmt.Fprintf(os.Stderr, "  Constants:  %d\n", len(program.Constants))
		fmt.Fprintf(os.Stderr, "  Functions:  %d\n", len(program.Functions))
	}

	if disassemble {
		fmt.Fprintf(os.Stderr, "\n== Quadruples (%s) ==\n", filename)
		fmt.Fprint(os.Stderr, program.Dump())
		fmt.Fprintln(os.Stderr)
	}

	outFile := compileOutputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".note"
		} else {
			outFile = filename + ".note"
		}
	}

	if err := os.WriteFile(outFile, []byte(program.Encode()), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Quadruples written to %s\n", outFile)
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}
	return nil
}
