// Package config 读取 qcli 的 YAML 配置文件
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 是 qcli 的完整配置
type Config struct {
	Log    Log     `yaml:"log"`
	Queues []Queue `yaml:"queues" validate:"dive"`
	Bench  Bench   `yaml:"bench"`
}

// Log 是日志配置，File 为空时只输出到标准错误
type Log struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Encoding   string `yaml:"encoding" validate:"oneof=console json"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size" validate:"gte=0"` // MB
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge     int    `yaml:"max_age" validate:"gte=0"` // 天
	Compress   bool   `yaml:"compress"`
}

// Queue 描述启动时预先创建的队列
type Queue struct {
	Name     string `yaml:"name" validate:"required"`
	Kind     string `yaml:"kind" validate:"oneof=simple twolock blocking timed bounded"`
	Capacity int    `yaml:"capacity" validate:"gte=0"`
	Wake     string `yaml:"wake" validate:"omitempty,oneof=all one broadcast signal"`
}

// Bench 是 bench 命令的默认参数
type Bench struct {
	Kind       string        `yaml:"kind" validate:"oneof=simple twolock blocking timed bounded"`
	Capacity   int           `yaml:"capacity" validate:"gte=0"`
	Wake       string        `yaml:"wake" validate:"omitempty,oneof=all one broadcast signal"`
	Producers  int           `yaml:"producers" validate:"gte=1"`
	Consumers  int           `yaml:"consumers" validate:"gte=1"`
	Items      int           `yaml:"items" validate:"gte=1"` // 每个生产者
	Rate       float64       `yaml:"rate" validate:"gte=0"`  // 每个生产者每秒，0 不限速
	PopTimeout time.Duration `yaml:"pop_timeout" validate:"gte=0"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Log: Log{
			Level:      "warn",
			Encoding:   "console",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Bench: Bench{
			Kind:       "bounded",
			Capacity:   64,
			Wake:       "all",
			Producers:  4,
			Consumers:  4,
			Items:      10000,
			PopTimeout: 100 * time.Millisecond,
		},
	}
}

// Load 读取配置文件，文件中未出现的字段保留默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Queues))
	for _, q := range c.Queues {
		if seen[q.Name] {
			return errors.Errorf("duplicate queue %q", q.Name)
		}
		seen[q.Name] = true
		if q.Kind == "bounded" && q.Capacity == 0 {
			return errors.Errorf("queue %q: bounded queue needs a capacity", q.Name)
		}
	}

	if c.Bench.Kind == "bounded" && c.Bench.Capacity == 0 {
		return errors.New("bench: bounded queue needs a capacity")
	}
	return nil
}
