package config

import "time"

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"product-service"`
	Group     string   `env:"KAFKA_GROUP" envDefault:"product-service"`

	// ProduceTimeout bounds how long a record may wait for broker acknowledgement.
	ProduceTimeout time.Duration `env:"KAFKA_PRODUCE_TIMEOUT" envDefault:"10s"`

	// ListenDeletions starts a consumer logging product-deleted events.
	ListenDeletions bool `env:"KAFKA_LISTEN_DELETIONS" envDefault:"false"`
}
