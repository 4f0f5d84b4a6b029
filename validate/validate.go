// Command validate checks game configuration JSON files. For each file it checks:
//   - JSON structure, rejecting unknown fields
//   - Grid size, win target and spawn probability ranges
//   - Required messages and their %d placeholders
//   - That the win target is reachable on the grid
//
// With no file arguments every *.json file in --dir is validated.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	// Optional messages are not checked by the engine but agents rely on them
	if config.Messages.CantMove == "" {
		result.fail("messages.cant_move is required")
	}
	if config.Messages.ScoreStatus == "" {
		result.fail("messages.score_status is required")
	}
	if !result.Valid {
		return result
	}

	seed := "random"
	if config.Seed != 0 {
		seed = fmt.Sprintf("%d (deterministic)", config.Seed)
	}
	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Grid: %dx%d", config.GridSize, config.GridSize),
		fmt.Sprintf("✓ Win target: %d", config.WinTarget),
		fmt.Sprintf("✓ Four probability: %g", config.FourProbability()),
		fmt.Sprintf("✓ Seed: %s", seed),
	)

	return result
}

// resolveFiles maps arguments to paths. Bare names are looked up in dir, and
// no arguments means every *.json file in dir.
func resolveFiles(dir string, args []string) ([]string, error) {
	if len(args) == 0 {
		files, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no configuration files in %s", dir)
		}
		sort.Strings(files)
		return files, nil
	}

	files := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.HasSuffix(arg, ".json") {
			arg = filepath.Join(dir, arg+".json")
		}
		files = append(files, arg)
	}
	return files, nil
}

// runValidation validates files, prints a concise report to w and returns
// the number of invalid files.
func runValidation(w io.Writer, files []string) int {
	invalid := 0
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			invalid++
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if invalid == 0 {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return invalid
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate game configuration files",
		ArgsUsage: "[files or config names...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "directory containing game configurations",
				Value:   "configs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := resolveFiles(cmd.String("dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}

			if invalid := runValidation(cmd.Root().Writer, files); invalid > 0 {
				return fmt.Errorf("%d of %d configurations are invalid", invalid, len(files))
			}
			return nil
		},
	}
}

// main validates the requested configurations and exits non-zero if any are invalid.
func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
