// Package config loads game settings.
//
// Two sources are supported:
//   - the process environment, optionally seeded from a .env file
//     (WIDTH, HEIGHT, ACCELERATE_MODE, FEATURE_BRICK and the TEXTURE_* glyphs)
//   - a directory of JSON presets, each an engine.Settings document
//
// Environment:
//
//	env, err := config.Load()
//	if err != nil {
//		var fe *config.FieldError
//		if errors.As(err, &fe) {
//			log.Fatalf("bad %s", fe.Field)
//		}
//	}
//
// Presets:
//
//	manager, err := config.NewManager("configs")
//	settings, err := manager.LoadConfig("wide")
//	presets, err := manager.ListConfigs()
//
// Presets are validated with engine.ValidateSettings when loaded and before
// they are saved. When no classic.json exists the manager falls back to the
// first valid preset, then to engine.DefaultSettings.
package config
