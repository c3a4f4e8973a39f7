package config

import (
	"strings"
	"testing"
)

// fullEnv sets every variable required for Load to succeed. Individual tests
// override or clear entries.
func fullEnv(t *testing.T) {
	t.Helper()
	env := map[string]string{
		"PORT":          "9090",
		"LOG_LEVEL":     "debug",
		"INGEST_TOKEN":  "secret",
		"VOICE_API_KEY": "sk-test",
		"SMTP_HOST":     "smtp.example.com",
		"SMTP_PORT":     "465",
		"SMTP_USER":     "mailer",
		"SMTP_PASS":     "hunter2",
		"MAIL_FROM":     "gateway@example.com",
		"MAIL_TO":       "inbox@example.com",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	fullEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Auth.IngestToken != "secret" {
		t.Errorf("unexpected ingest token: %q", cfg.Auth.IngestToken)
	}
	if cfg.SMTP.Port != 465 {
		t.Errorf("expected SMTP port 465, got %d", cfg.SMTP.Port)
	}
	if cfg.SMTP.To != "inbox@example.com" {
		t.Errorf("unexpected recipient: %q", cfg.SMTP.To)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	fullEnv(t)
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Whisper.Model != "whisper-1" {
		t.Errorf("expected default model, got %s", cfg.Whisper.Model)
	}
	if cfg.Service.Environment != "development" {
		t.Errorf("expected default environment, got %s", cfg.Service.Environment)
	}
}

func TestLoadFailsFastOnMissingRequired(t *testing.T) {
	cases := []struct {
		clear string
		want  string
	}{
		{"INGEST_TOKEN", "ingest_token"},
		{"VOICE_API_KEY", "api_key"},
		{"SMTP_HOST", "host"},
		{"MAIL_TO", "to"},
	}

	for _, tc := range cases {
		t.Run(tc.clear, func(t *testing.T) {
			fullEnv(t)
			t.Setenv(tc.clear, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error when %s is missing", tc.clear)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not name field %q", err, tc.want)
			}
		})
	}
}

func TestLoadRejectsInvalidRecipient(t *testing.T) {
	fullEnv(t)
	t.Setenv("MAIL_TO", "not-an-address")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid recipient address")
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("error %q does not mention email format", err)
	}
}

func TestReady(t *testing.T) {
	cfg := &Config{}
	if cfg.Ready() {
		t.Error("empty config must not be ready")
	}

	cfg.Auth.IngestToken = "secret"
	cfg.Whisper.APIKey = "sk-test"
	cfg.SMTP.Host = "smtp.example.com"
	cfg.SMTP.Username = "mailer"
	cfg.SMTP.Password = "hunter2"
	cfg.SMTP.From = "gateway@example.com"
	cfg.SMTP.To = "inbox@example.com"
	if !cfg.Ready() {
		t.Error("fully configured service must report ready")
	}
}
