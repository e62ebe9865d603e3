package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	MatchTarget      int `yaml:"match_target"`       // 比赛目标分
	RoomTimeout      int `yaml:"room_timeout"`       // 房间存活上限（分钟）
	TrickRevealDelay int `yaml:"trick_reveal_delay"` // 一墩收走前的展示时间（毫秒）
}

// RoomTimeoutDuration 返回房间存活上限时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// TrickRevealDelayDuration 返回墩展示时长
func (c *GameConfig) TrickRevealDelayDuration() time.Duration {
	return time.Duration(c.TrickRevealDelay) * time.Millisecond
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 设置默认值
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1780
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.MatchTarget == 0 {
		cfg.Game.MatchTarget = 5
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 120
	}
	if cfg.Game.TrickRevealDelay == 0 {
		cfg.Game.TrickRevealDelay = 1500
	}

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           1780,
			MaxConnections: 1000,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			MatchTarget:      5,
			RoomTimeout:      120,
			TrickRevealDelay: 1500,
		},
	}
}
