package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/jorgelmarquez94/symphony/internal/cerrors"
	"github.com/jorgelmarquez94/symphony/internal/parser"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse and compile a Symphony file, printing its quadruples",
	Long: `Parse runs the full lexer/parser/quadruple-generator pipeline
without executing the result, and prints the compiled quadruple listing.

Examples:
  symphony parse script.sym
  symphony parse -e "program P; int x; x = 1;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	input, filename, err := resolveInput(parseEvalExpr, args)
	if err != nil {
		return err
	}

	program, err := parser.New(input).Parse()
	if err != nil {
		return reportCompileError(err, input, filename)
	}

	fmt.Print(program.Dump())
	return nil
}

// reportCompileError renders a *cerrors.Error with source context (or any
// other error plainly) and returns a generic failure for cobra's exit code.
func reportCompileError(err error, source, filename string) error {
	var symErr *cerrors.Error
	if errors.As(err, &symErr) {
		se := &cerrors.SourceError{Err: symErr, Source: source, File: filename}
		fmt.Fprintln(os.Stderr, se.Format(true))
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	return fmt.Errorf("compilation failed")
}
