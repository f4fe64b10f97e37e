package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, ValidateSettings(s))
	assert.Equal(t, 10, s.Width)
	assert.Equal(t, 20, s.Height)
	assert.True(t, s.FeatureBricks)
	assert.True(t, s.Accelerate)
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid minimum", func(s *Settings) { s.Width, s.Height = 4, 4 }, ""},
		{"valid maximum", func(s *Settings) { s.Width, s.Height = 64, 64 }, ""},
		{"missing name", func(s *Settings) { s.Name = "" }, "name is required"},
		{"narrow", func(s *Settings) { s.Width = 3 }, "width must be between 4 and 64, got 3"},
		{"wide", func(s *Settings) { s.Width = 65 }, "width must be between"},
		{"short", func(s *Settings) { s.Height = 0 }, "height must be between 4 and 64, got 0"},
		{"tall", func(s *Settings) { s.Height = 100 }, "height must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSettings)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
