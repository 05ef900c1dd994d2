package config

import (
	"errors"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type ServerConfig struct {
	Address      string `yaml:"address" env:"TASKBOARD_ADDRESS" env-default:":8080"`
	DatabasePath string `yaml:"database_path" env:"TASKBOARD_DB"`
}

type ClientConfig struct {
	ServerURL       string `yaml:"server_url" env:"TASKBOARD_SERVER" env-default:"http://localhost:8080"`
	CredentialsPath string `yaml:"credentials_path" env:"TASKBOARD_CREDENTIALS" env-default:"credentials.json"`
	SessionPath     string `yaml:"session_path" env:"TASKBOARD_SESSION"`
}

type Config struct {
	LogLevel string       `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	Server   ServerConfig `yaml:"server"`
	Client   ClientConfig `yaml:"client"`
}

// MustLoad reads configuration from the given yaml file, falling back to
// environment variables alone when the file does not exist.
func MustLoad(configPath string) Config {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
