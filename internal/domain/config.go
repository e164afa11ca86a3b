package domain

// Config is the runtime view of the api section of the configuration file.
type Config struct {
	ApplicationName string `yaml:"applicationName"`
	DefaultPageSize int    `yaml:"defaultPageSize"`
	MaxPageSize     int    `yaml:"maxPageSize"`
}
