package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"github.com/wricardo/blockfall/game/engine"
)

// Environment variable names
const (
	EnvWidth         = "WIDTH"
	EnvHeight        = "HEIGHT"
	EnvAccelerate    = "ACCELERATE_MODE"
	EnvFeatureBrick  = "FEATURE_BRICK"
	EnvTextureFull   = "TEXTURE_FULL"
	EnvTextureWall   = "TEXTURE_WALL"
	EnvTextureEmpty  = "TEXTURE_EMPTY"
	EnvTextureShadow = "TEXTURE_SHADOW"
)

// FieldError reports a malformed setting
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s has invalid value %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Texture is the glyph set used by text renderers
type Texture struct {
	Full   rune `json:"full"`
	Wall   rune `json:"wall"`
	Empty  rune `json:"empty"`
	Shadow rune `json:"shadow"`
}

// DefaultTexture returns the stock glyphs
func DefaultTexture() Texture {
	return Texture{Full: '#', Wall: 'H', Empty: ' ', Shadow: '.'}
}

// Env is the configuration read from the process environment
type Env struct {
	Settings engine.Settings
	Texture  Texture
}

// Load reads the given dotenv files (".env" when none are given) into the
// process environment and parses the settings. Missing files are ignored.
func Load(files ...string) (*Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return LoadFrom(os.LookupEnv)
}

// LoadFrom parses settings using lookup for each variable
func LoadFrom(lookup func(string) (string, bool)) (*Env, error) {
	env := &Env{
		Settings: engine.DefaultSettings(),
		Texture:  DefaultTexture(),
	}
	env.Settings.Name = "env"
	env.Settings.Description = "Settings from the environment"

	p := parser{lookup: lookup}
	env.Settings.Width = p.dimensionVar(EnvWidth, env.Settings.Width)
	env.Settings.Height = p.dimensionVar(EnvHeight, env.Settings.Height)
	env.Settings.Accelerate = p.boolVar(EnvAccelerate, env.Settings.Accelerate)
	env.Settings.FeatureBricks = p.boolVar(EnvFeatureBrick, env.Settings.FeatureBricks)
	env.Texture.Full = p.runeVar(EnvTextureFull, env.Texture.Full)
	env.Texture.Wall = p.runeVar(EnvTextureWall, env.Texture.Wall)
	env.Texture.Empty = p.runeVar(EnvTextureEmpty, env.Texture.Empty)
	env.Texture.Shadow = p.runeVar(EnvTextureShadow, env.Texture.Shadow)
	if p.err != nil {
		return nil, p.err
	}

	if err := engine.ValidateSettings(env.Settings); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return env, nil
}

// parser keeps the first error and ignores later fields
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) value(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	return p.lookup(key)
}

func (p *parser) intVar(key string, def int) int {
	v, ok := p.value(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = &FieldError{Field: key, Value: v, Err: err}
		return def
	}
	return n
}

// dimensionVar reads a board size and rejects values outside the engine limits
func (p *parser) dimensionVar(key string, def int) int {
	n := p.intVar(key, def)
	if p.err != nil || (n >= engine.MinBoardSize && n <= engine.MaxBoardSize) {
		return n
	}
	v, _ := p.lookup(key)
	p.err = fmt.Errorf("%w: %w", ErrInvalidConfig, &FieldError{
		Field: key,
		Value: v,
		Err:   fmt.Errorf("%w: must be between %d and %d", engine.ErrInvalidSettings, engine.MinBoardSize, engine.MaxBoardSize),
	})
	return def
}

func (p *parser) boolVar(key string, def bool) bool {
	v, ok := p.value(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = &FieldError{Field: key, Value: v, Err: err}
		return def
	}
	return b
}

func (p *parser) runeVar(key string, def rune) rune {
	v, ok := p.value(key)
	if !ok {
		return def
	}
	if utf8.RuneCountInString(v) != 1 {
		p.err = &FieldError{Field: key, Value: v, Err: errors.New("must be a single character")}
		return def
	}
	r, _ := utf8.DecodeRuneInString(v)
	return r
}
