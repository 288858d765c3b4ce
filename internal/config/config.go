package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var ErrUnknownStorage = errors.New("unknown storage driver")

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"TTT_HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"TTT_SOCKET_PORT" env-default:"9091"`
	Storage    Storage `yaml:"storage"`
	Redis      Redis   `yaml:"redis"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"TTT_STORAGE_DRIVER" env-default:"memory"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"TTT_REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"TTT_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"TTT_REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"TTT_REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"TTT_REDIS_TTL" env-default:"24h"`
}

// Load reads the file at path, or only the environment when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Storage.Driver {
	case StorageMemory, StorageRedis:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage.Driver)
	}
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
