package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jorgelmarquez94/symphony/pkg/symphony"
	"github.com/spf13/cobra"
)

const (
	ansiGreen = "\033[1;32m"
	ansiRed   = "\033[1;31m"
	ansiReset = "\033[0m"
)

var (
	runStdinFile string
	runSeed      int64
	runUseSeed   bool
	runNoteCache string
)

var runCmd = &cobra.Command{
	Use:   "run <file> [file...]",
	Short: "Run one or more Symphony files",
	Long: `Run compiles and executes each given file in turn: on success the
filename prints in green followed by everything it printed; on failure the
filename prints in red followed by the error. Exit status is nonzero if any
file failed.

Examples:
  symphony run script.sym
  symphony run a.sym b.sym c.sym
  symphony run --stdin-file input.txt script.sym`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScripts,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runStdinFile, "stdin-file", "", "file of newline-separated lines for read()/input() to consume")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "fix random()'s RNG seed")
	runCmd.Flags().BoolVar(&runUseSeed, "use-seed", false, "apply --seed (unset means random() is nondeterministic)")
	runCmd.Flags().StringVar(&runNoteCache, "note-cache", "", "directory to cache compiled .note files in")
}

func runScripts(_ *cobra.Command, args []string) error {
	stdinLines, err := readStdinFile(runStdinFile)
	if err != nil {
		return err
	}

	failures := 0
	for _, filename := range args {
		if err := runOneScript(filename, stdinLines); err != nil {
			failures++
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
	return nil
}

func runOneScript(filename string, stdinLines []string) error {
	var opts []symphony.Option
	opts = append(opts, symphony.WithStdin(stdinLines))
	if runUseSeed {
		opts = append(opts, symphony.WithSeed(runSeed))
	}
	if runNoteCache != "" {
		opts = append(opts, symphony.WithNoteCache(runNoteCache))
	}
	engine := symphony.New(opts...)

	output, err := engine.CompileAndRunFile(filename)
	if err != nil {
		fmt.Printf("%s%s%s\n", ansiRed, filename, ansiReset)
		fmt.Printf("%s%s%s\n", ansiRed, err.Error(), ansiReset)
		return err
	}

	fmt.Printf("%s%s%s\n", ansiGreen, filename, ansiReset)
	for _, line := range output.Prints {
		fmt.Print(line)
	}
	return nil
}

func readStdinFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin file %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
