package config

import (
	"os"

	"github.com/go-yaml/yaml"

	"github.com/totegamma/rfb-playground/internal/domain"
)

type Config struct {
	Server Server        `yaml:"server"`
	API    domain.Config `yaml:"api"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	Driver        string `yaml:"driver"` // postgres, sqlite
	PostgresDsn   string `yaml:"postgresDsn"`
	SQLitePath    string `yaml:"sqlitePath"`
	MaxConns      int    `yaml:"maxConns"`
	ApplySchema   bool   `yaml:"applySchema"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	EnableMetrics bool   `yaml:"enableMetrics"`
}

func Default() Config {
	return Config{
		Server: Server{
			ListenAddr: ":8000",
			Driver:     "postgres",
			SQLitePath: "rfb.db",
			MaxConns:   10,
		},
		API: domain.Config{
			ApplicationName: "rfbApp",
			DefaultPageSize: 20,
			MaxPageSize:     2000,
		},
	}
}

// Load reads the yaml file at path on top of Default.
func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Default()
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	return config, nil
}
