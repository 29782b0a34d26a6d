// Package config loads configuration structs from environment variables.
//
// It combines github.com/joho/godotenv, which reads an optional .env file into
// the process environment, with github.com/caarlos0/env/v11, which parses the
// environment into structs annotated with `env` and `envDefault` tags.
// Each configuration type is parsed once per process and cached; Reset clears
// the cache in tests.
//
// # Usage
//
//	type AppConfig struct {
//		Env  string `env:"APP_ENV" envDefault:"development"`
//		Name string `env:"APP_NAME" envDefault:"stateserver"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// # Error Handling
//
// Parsing failures are joined with ErrParsingConfig and unreadable explicit
// env files with ErrLoadingFile, so callers can use errors.Is.
package config
