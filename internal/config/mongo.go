package config

import "time"

type Mongo struct {
	URI        string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database   string        `env:"MONGO_DATABASE" envDefault:"product_service"`
	Collection string        `env:"MONGO_COLLECTION" envDefault:"products"`
	Timeout    time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
}
