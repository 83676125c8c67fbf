package cmd

import (
	"fmt"
	"os"

	"github.com/jorgelmarquez94/symphony/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr string
	showPos     bool
	showType    bool
	onlyErrors  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Symphony file and print its tokens",
	Long: `Tokenize runs only the lexer and prints the resulting token stream,
for inspecting how source text splits into tokens.

Examples:
  symphony lex script.sym
  symphony lex -e "int x; x = 1;"
  symphony lex --show-pos --show-type script.sym`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, filename, err := resolveInput(lexEvalExpr, args)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	l := lexer.New(input)
	tokenCount, errorCount := 0, 0
	for {
		tok := l.NextToken()
		if onlyErrors && tok.Type != lexer.ILLEGAL {
			if tok.Type == lexer.EOF {
				break
			}
			continue
		}

		tokenCount++
		if tok.Type == lexer.ILLEGAL {
			errorCount++
		}
		printToken(tok)

		if tok.Type == lexer.EOF {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}

	if len(l.Errors()) > 0 {
		return fmt.Errorf("found %d illegal token(s)", len(l.Errors()))
	}
	return nil
}

func printToken(tok lexer.Token) {
	var output string
	if showType {
		output = fmt.Sprintf("[%-12s]", tok.Type)
	}

	switch {
	case tok.Type == lexer.EOF:
		output += " EOF"
	case tok.Type == lexer.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	case tok.Literal == "":
		output += fmt.Sprintf(" %s", tok.Type)
	default:
		output += fmt.Sprintf(" %q", tok.Literal)
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(output)
}

// resolveInput picks source text from -e or a single file argument, the
// way the lex and parse subcommands determine their input.
func resolveInput(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
