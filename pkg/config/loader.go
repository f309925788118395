package config

import (
	"fmt"
	"reflect"

	"github.com/caarlos0/env/v10"
	"golang.org/x/text/currency"
)

// parsers teaches env how to read types that do not implement
// encoding.TextUnmarshaler. decimal.Decimal does, so it needs no entry.
var parsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(currency.Unit{}): func(v string) (any, error) {
		unit, err := currency.ParseISO(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ISO 4217 currency %q: %w", v, err)
		}
		return unit, nil
	},
}

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings.
//
// Example:
//
//	type Config struct {
//	    Port     int           `env:"HTTP_PORT" envDefault:"8080"`
//	    Currency currency.Unit `env:"CURRENCY" envDefault:"USD"`
//	}
func Load(cfg any) error {
	if err := env.ParseWithOptions(cfg, env.Options{FuncMap: parsers}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
