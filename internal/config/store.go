package config

import (
	"fmt"
	"strings"
)

type Store struct {
	Driver StoreDriver `env:"STORE_DRIVER" envDefault:"mongo"`
}

// StoreDriver selects the backend holding product records.
type StoreDriver uint8

const (
	StoreDriverMongo StoreDriver = iota
	StoreDriverPostgres
	StoreDriverMemory
)

func (d StoreDriver) String() string {
	switch d {
	case StoreDriverPostgres:
		return "postgres"
	case StoreDriverMemory:
		return "memory"
	default:
		return "mongo"
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *StoreDriver) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "mongo", "mongodb":
		*d = StoreDriverMongo
	case "postgres", "postgresql":
		*d = StoreDriverPostgres
	case "memory":
		*d = StoreDriverMemory
	default:
		return fmt.Errorf("unknown store driver: %s", text)
	}
	return nil
}

func (d StoreDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
