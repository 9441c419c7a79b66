package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gh-telegram-relay/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
github:
  webhook_secret: s3cret
telegram:
  bot_token: token
  timeout: 3s
webhook:
  allowed_ips: ["10.0.0.0/8", "127.0.0.1"]
routing:
  - repo_pattern: "acme/*"
    chat_id: -1001
    events: ["pull_request", "issues.opened"]
  - repo_pattern: "*"
    chat_id: "@all"
    events: ["*"]
`

func TestLoadFile(t *testing.T) {
	cfg, err := config.LoadFile(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GitHub.WebhookSecret != "s3cret" || cfg.Telegram.BotToken != "token" {
		t.Errorf("unexpected credentials: %+v %+v", cfg.GitHub, cfg.Telegram)
	}
	if cfg.Telegram.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.Telegram.Timeout)
	}

	// Defaults
	if cfg.HTTPServer.Port != 8080 || cfg.HTTPServer.Mode != "debug" {
		t.Errorf("unexpected server defaults: %+v", cfg.HTTPServer)
	}
	if cfg.Telegram.APIURL != "https://api.telegram.org" {
		t.Errorf("unexpected api url default %q", cfg.Telegram.APIURL)
	}
	if cfg.Webhook.ReplayCacheSize != 0 || cfg.Webhook.ReplayWindow != 10*time.Minute {
		t.Errorf("unexpected replay defaults: %+v", cfg.Webhook)
	}
	if len(cfg.Webhook.AllowedIPs) != 2 {
		t.Errorf("expected 2 allowed ips, got %v", cfg.Webhook.AllowedIPs)
	}

	rules := cfg.Rules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].RepoPattern != "acme/*" || rules[0].Destination != "-1001" {
		t.Errorf("unexpected first rule: %+v", rules[0])
	}
	if len(rules[0].Events) != 2 || rules[0].Events[1] != "issues.opened" {
		t.Errorf("unexpected first rule events: %v", rules[0].Events)
	}
	if rules[1].Destination != "@all" || rules[1].Events[0] != "*" {
		t.Errorf("unexpected second rule: %+v", rules[1])
	}
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("GITHUB_WEBHOOK_SECRET", "from-env")

	cfg, err := config.LoadFile(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GitHub.WebhookSecret != "from-env" {
		t.Errorf("expected env override, got %q", cfg.GitHub.WebhookSecret)
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "Missing secret",
			content: "telegram:\n  bot_token: token\n",
			wantErr: "webhook_secret",
		},
		{
			name:    "Missing token",
			content: "github:\n  webhook_secret: s\n",
			wantErr: "bot_token",
		},
		{
			name: "Rule without events",
			content: `
github:
  webhook_secret: s
telegram:
  bot_token: t
routing:
  - repo_pattern: "*"
    chat_id: "1"
`,
			wantErr: "routing[0]",
		},
		{
			name: "Rule without chat",
			content: `
github:
  webhook_secret: s
telegram:
  bot_token: t
routing:
  - repo_pattern: "*"
    events: ["*"]
`,
			wantErr: "chat_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFile(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
