package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/caarlos0/env/v11"
)

// validator is implemented by sections that check values env tags cannot express.
type validator interface {
	Validate() error
}

// New parses environment variables into a T and validates every section of it.
func New[T any]() (T, error) {
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func validate(cfg any) error {
	if v, ok := cfg.(validator); ok {
		return v.Validate()
	}

	rv := reflect.ValueOf(cfg).Elem()
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var errs []error
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanAddr() || !field.Addr().CanInterface() {
			continue
		}
		if v, ok := field.Addr().Interface().(validator); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", rv.Type().Field(i).Name, err))
			}
		}
	}

	return errors.Join(errs...)
}
