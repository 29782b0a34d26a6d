package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu       sync.Mutex
	cache    = make(map[reflect.Type]any)
	dotenvMu sync.Once
)

// Load fills v from environment variables using `env` / `envDefault` tags.
// The default .env file in the working directory is read once, if present;
// existing process variables always win over it. Each config type is parsed
// once and later calls receive the cached copy.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvMu.Do(func() {
		// A missing .env file is fine.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[key] = parsed
	*v = parsed
	return nil
}

// LoadFiles reads the given .env files into the process environment without
// overriding variables already set. It must run before the first Load of a
// type to affect it.
func LoadFiles(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingFile, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	clear(cache)
}
