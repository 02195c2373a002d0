package config

import "errors"

// Otel configures trace export. Tracing stays local when CollectorURL is empty.
type Otel struct {
	ServiceName   string  `env:"OTEL_SERVICE_NAME" envDefault:"product-service"`
	CollectorURL  string  `env:"OTEL_COLLECTOR_URL"`
	CollectorAuth string  `env:"OTEL_COLLECTOR_AUTH"`
	Insecure      bool    `env:"OTEL_INSECURE"`
	TraceIDRatio  float64 `env:"OTEL_TRACE_ID_RATIO" envDefault:"0.1"`

	K8sPodName   string `env:"K8S_POD_NAME"`
	K8sNamespace string `env:"K8S_NAMESPACE"`
}

func (o Otel) Enabled() bool {
	return o.CollectorURL != ""
}

func (o *Otel) Validate() error {
	if o.TraceIDRatio < 0 || o.TraceIDRatio > 1 {
		return errors.New("trace id ratio must be within [0, 1]")
	}
	return nil
}
