package config

// MetricsConfig controls the Prometheus scrape endpoint
type MetricsConfig struct {
	// Enabled turns on collection and the HTTP endpoint
	Enabled bool `mapstructure:"enabled"`

	// Port 0 lets the OS pick one
	Port int `mapstructure:"port" validate:"omitempty,min=0,max=65535"`

	Host string `mapstructure:"host"`
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
