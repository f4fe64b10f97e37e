// Command validate checks the board presets in a configs directory
// (default ./configs). For each JSON file it verifies that:
//   - the file parses and passes engine settings validation
//   - the file name matches the preset name
//   - every shape in the draw pool fits the board in all rotations
//
// It exits with a non-zero status if any preset is invalid.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/blockfall/game/config"
	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
)

// ValidationResult captures the outcome of validating a single file.
// Notes holds informational lines; Errors is empty when Valid is true.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	settings, err := config.ReadPreset(filePath)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrConfigNotFound):
			result.fail("File not found")
		default:
			result.fail("%v", err)
		}
		return result
	}

	if id := strings.TrimSuffix(result.File, ".json"); id != settings.Name {
		result.fail("Name %q does not match file name %q", settings.Name, id)
	}

	kinds := engine.KindsFor(settings.FeatureBricks)
	for _, kind := range kinds {
		if w, h, ok := fits(kind, settings.Width, settings.Height); !ok {
			result.fail("Shape %s (%dx%d) does not fit a %dx%d board", kind, w, h, settings.Width, settings.Height)
		}
	}

	result.note("Board: %dx%d", settings.Width, settings.Height)
	result.note("Draw pool: %d shapes", len(kinds))
	result.note("Gravity: %s", describeCadence(loop.CadenceFor(*settings)))
	return result
}

// fits reports whether every rotation of kind fits the board, returning the
// largest extent seen
func fits(kind engine.Kind, width, height int) (int, int, bool) {
	piece := engine.NewPiece(kind)
	maxW, maxH := 0, 0
	for range 4 {
		w, h := piece.Size()
		maxW, maxH = max(maxW, w), max(maxH, h)
		piece.Rotate()
	}
	return maxW, maxH, maxW <= width && maxH <= height
}

func describeCadence(c loop.Cadence) string {
	switch c := c.(type) {
	case loop.FixedCadence:
		return fmt.Sprintf("fixed, every %d frames", int(c))
	case loop.ScoreCadence:
		return fmt.Sprintf("accelerating, %d frames down to %d", c.Frames(engine.Ledger{}), c.Floor)
	case loop.ManualCadence:
		return "manual"
	default:
		return fmt.Sprintf("%T", c)
	}
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report
func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No presets found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("VALID")
			for _, info := range result.Notes {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  - " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("All presets are valid")
	} else {
		fmt.Println("Some presets have errors")
		os.Exit(1)
	}
}
