package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ── 测试辅助 ──

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}

// ── Load 测试 ──

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfigFile(t, "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("期望默认端口 8080，实际 %d", cfg.Server.Port)
	}
	if len(cfg.Server.CORS.AllowOrigins) != 1 || cfg.Server.CORS.AllowOrigins[0] != "*" {
		t.Errorf("期望默认 CORS 白名单 [*]，实际 %v", cfg.Server.CORS.AllowOrigins)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("期望默认模型 gpt-4o-mini，实际 %s", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.MaxRetries != 2 {
		t.Errorf("期望默认重试上限 2，实际 %d", cfg.OpenAI.MaxRetries)
	}
	if cfg.Holiday.BaseURL != "https://date.nager.at/api/v3" {
		t.Errorf("期望默认 Nager.Date 地址，实际 %s", cfg.Holiday.BaseURL)
	}
	if cfg.Holiday.Timeout != 5*time.Second {
		t.Errorf("期望默认超时 5s，实际 %v", cfg.Holiday.Timeout)
	}
	if cfg.OpenAI.CredentialConfigured() {
		t.Error("未设置环境变量时凭证应视为未配置")
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
openai:
  model: gpt-4o
  max_retries: 1
holiday:
  timeout: 2s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望端口 9090，实际 %d", cfg.Server.Port)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("期望模型 gpt-4o，实际 %s", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.MaxRetries != 1 {
		t.Errorf("期望重试上限 1，实际 %d", cfg.OpenAI.MaxRetries)
	}
	if cfg.Holiday.Timeout != 2*time.Second {
		t.Errorf("期望超时 2s，实际 %v", cfg.Holiday.Timeout)
	}
}

func TestLoad_APIKeyOnlyFromEnv(t *testing.T) {
	// 凭证只认环境变量，配置文件中的 api_key 不生效
	t.Setenv("OPENAI_API_KEY", "sk-test-123")
	path := writeConfigFile(t, `
openai:
  api_key: file-key-should-be-ignored
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-test-123" {
		t.Errorf("期望环境变量中的 Key，实际 %s", cfg.OpenAI.APIKey)
	}
	if !cfg.OpenAI.CredentialConfigured() {
		t.Error("设置环境变量后凭证应视为已配置")
	}
}

func TestLoad_CORSEnvOverride(t *testing.T) {
	t.Setenv("GSYNC_SERVER_CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com")
	path := writeConfigFile(t, "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	origins := cfg.Server.CORS.AllowOrigins
	if len(origins) != 2 {
		t.Fatalf("期望 2 个来源，实际 %v", origins)
	}
	if origins[0] != "https://a.example.com" || origins[1] != "https://b.example.com" {
		t.Errorf("来源应去除空白，实际 %v", origins)
	}
}

func TestLoad_InvalidPortRejected(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 0
`)

	if _, err := Load(path); err == nil {
		t.Fatal("非法端口应在加载时拒绝")
	}
}

func TestLoad_InvalidTimeoutRejected(t *testing.T) {
	path := writeConfigFile(t, `
holiday:
  timeout: 0s
`)

	if _, err := Load(path); err == nil {
		t.Fatal("非正超时应在加载时拒绝")
	}
}

// ── CredentialConfigured 测试 ──

func TestCredentialConfigured(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"your-openai-api-key-here", false},
		{"sk-real-key", true},
	}
	for _, tc := range cases {
		cfg := OpenAIConfig{APIKey: tc.key}
		if got := cfg.CredentialConfigured(); got != tc.want {
			t.Errorf("CredentialConfigured(%q) = %v，期望 %v", tc.key, got, tc.want)
		}
	}
}

// [自证通过] config/config_test.go
