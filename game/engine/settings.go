package engine

import "fmt"

// Settings defines the board and draw rules for a session
type Settings struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	// FeatureBricks adds the non-classic shapes to the random draw
	FeatureBricks bool `json:"feature_bricks"`
	// Accelerate lets the driving loop shorten the gravity interval as score grows
	Accelerate bool `json:"accelerate"`
	// Seed fixes the piece sequence; zero picks a random seed
	Seed uint64 `json:"seed,omitempty"`
}

// DefaultSettings returns the classic 10x20 board with every shape enabled
func DefaultSettings() Settings {
	return Settings{
		Name:          "classic",
		Description:   "Classic 10x20 board with feature bricks",
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		FeatureBricks: true,
		Accelerate:    true,
	}
}

// ValidateSettings checks dimensions and required fields
func ValidateSettings(s Settings) error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSettings)
	}
	if s.Width < MinBoardSize || s.Width > MaxBoardSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidSettings, MinBoardSize, MaxBoardSize, s.Width)
	}
	if s.Height < MinBoardSize || s.Height > MaxBoardSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidSettings, MinBoardSize, MaxBoardSize, s.Height)
	}
	return nil
}
