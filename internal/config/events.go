package config

import (
	"fmt"
	"strings"
)

type Events struct {
	Delivery EventsDelivery `env:"EVENTS_DELIVERY" envDefault:"direct"`
}

// EventsDelivery selects how deletion notifications reach Kafka.
type EventsDelivery uint8

const (
	// EventsDeliveryDirect produces to Kafka right after the delete.
	EventsDeliveryDirect EventsDelivery = iota
	// EventsDeliveryOutbox stores the event in PostgreSQL for the relay.
	EventsDeliveryOutbox
)

func (d EventsDelivery) String() string {
	if d == EventsDeliveryOutbox {
		return "outbox"
	}
	return "direct"
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *EventsDelivery) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "direct":
		*d = EventsDeliveryDirect
	case "outbox":
		*d = EventsDeliveryOutbox
	default:
		return fmt.Errorf("unknown events delivery: %s", text)
	}
	return nil
}

func (d EventsDelivery) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
