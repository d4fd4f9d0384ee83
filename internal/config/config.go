// Package config 负责加载持久化配置：TOML 文件为基底，
// 环境变量覆盖，命令行 -c key=value 再覆盖。
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the only persisted config file schema.
type Config struct {
	PlannerURL   string `toml:"planner_url" env:"FIESTA_PLANNER_URL"`
	PlannerToken string `toml:"planner_token" env:"FIESTA_PLANNER_TOKEN"`
	EventID      string `toml:"event_id" env:"FIESTA_EVENT_ID"`

	AssistantURL string `toml:"assistant_url" env:"FIESTA_ASSISTANT_URL"`
	AssistantKey string `toml:"assistant_key" env:"FIESTA_ASSISTANT_KEY"`
	Model        string `toml:"model" env:"FIESTA_MODEL"`

	Source string `toml:"-" env:"-"`
}

func Default() Config {
	return Config{Model: "gpt-4o-mini"}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fiesta", "config.toml")
}

// Load 读取配置文件并应用环境变量覆盖。文件不存在不算错误。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg)
		}
		return cfg, err
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save 将配置写回 TOML 文件。
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New("config path is empty and $HOME is not set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
