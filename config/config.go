package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"gh-telegram-relay/internal/model"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Relay specifics
	GitHub   GitHubConfig
	Telegram TelegramConfig
	Webhook  WebhookConfig
	Routing  []RouteConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type GitHubConfig struct {
	WebhookSecret string
}

type TelegramConfig struct {
	BotToken string
	APIURL   string
	Timeout  time.Duration
}

type WebhookConfig struct {
	AllowedIPs      []string
	ReplayCacheSize int
	ReplayWindow    time.Duration
}

// RouteConfig is one entry of the routing table.
type RouteConfig struct {
	RepoPattern string   `mapstructure:"repo_pattern"`
	ChatID      string   `mapstructure:"chat_id"`
	Events      []string `mapstructure:"events"`
}

// Rules converts the routing table into subscription rules, preserving order.
func (c *Config) Rules() []model.SubscriptionRule {
	rules := make([]model.SubscriptionRule, 0, len(c.Routing))
	for _, r := range c.Routing {
		rules = append(rules, model.SubscriptionRule{
			RepoPattern: r.RepoPattern,
			Destination: r.ChatID,
			Events:      r.Events,
		})
	}
	return rules
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")
	return load(v)
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// GitHub
	cfg.GitHub.WebhookSecret = v.GetString("github.webhook_secret")

	// Telegram
	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	cfg.Telegram.APIURL = v.GetString("telegram.api_url")
	cfg.Telegram.Timeout = v.GetDuration("telegram.timeout")

	// Webhook
	cfg.Webhook.ReplayCacheSize = v.GetInt("webhook.replay_cache_size")
	cfg.Webhook.ReplayWindow = v.GetDuration("webhook.replay_window")
	cfg.Webhook.AllowedIPs = splitList(v.GetStringSlice("webhook.allowed_ips"))

	// Routing table
	if err := v.UnmarshalKey("routing", &cfg.Routing); err != nil {
		return nil, fmt.Errorf("error decoding routing table: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.timeout", "10s")
	v.SetDefault("webhook.replay_cache_size", 0)
	v.SetDefault("webhook.replay_window", "10m")
}

func (c *Config) validate() error {
	if c.GitHub.WebhookSecret == "" {
		return errors.New("github.webhook_secret is required")
	}
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required")
	}

	for i, r := range c.Routing {
		if r.RepoPattern == "" {
			return fmt.Errorf("routing[%d]: repo_pattern is required", i)
		}
		if r.ChatID == "" {
			return fmt.Errorf("routing[%d]: chat_id is required", i)
		}
		if len(r.Events) == 0 {
			return fmt.Errorf("routing[%d]: at least one event is required", i)
		}
	}

	if len(c.Routing) == 0 {
		fmt.Println("Warning: routing table is empty, no events will be relayed")
	}

	return nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
