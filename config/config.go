package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App    App
	DB     DB
	Cache  Cache
	Remote Remote
}

// App holds process-wide settings.
type App struct {
	Dev          bool
	WebListen    string `default:":8080"`
	TemplatePath string
	IPWhitelist  []string
}

type DB struct {
	DSN string
}

type Cache struct {
	Path string `default:".finder/cache"`
}

type Remote struct {
	BaseURL        string
	TimeoutSeconds int `default:"10"`
}

func (r Remote) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

func Load(configPaths ...string) (c Config) {
	cwd, _ := os.Getwd()
	configPaths = append(configPaths, path.Join(cwd, "config.yml"))

	if envConfigFile := os.Getenv("CONFIG_FILE"); envConfigFile != "" {
		configPaths = append(configPaths, envConfigFile)
	}

	configDefault(&c)

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}

		d, err := os.ReadFile(configPath)
		if err != nil {
			panic(err)
		}

		if err := yaml.Unmarshal(d, &c); err != nil {
			panic(err)
		}
	}

	return
}
