// Package transcribe wraps the speech-to-text provider behind a single
// bounded call with a closed failure taxonomy.
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/skillsenselab/voice-capture/internal/logger"
	"github.com/skillsenselab/voice-capture/internal/util"
)

const (
	defaultModel   = "whisper-1"
	defaultTimeout = 30 * time.Second
)

// Config holds configuration for the transcription client.
type Config struct {
	APIKey  string        `mapstructure:"api_key" validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Result is the outcome of a successful transcription. Language is empty when
// the provider does not report one (auto-detection, no language forced).
type Result struct {
	Text     string
	Language string
}

// Client calls the transcription provider. One outbound call per request,
// no retries.
type Client struct {
	cfg Config
	api *openai.Client
	log *logger.Logger
}

// NewClient creates a transcription client from configuration.
func NewClient(cfg Config, log *logger.Logger) *Client {
	cfg.ApplyDefaults()

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		cfg: cfg,
		api: openai.NewClientWithConfig(apiCfg),
		log: log.WithComponent("transcribe"),
	}
}

// Transcribe sends audio bytes for transcription and returns the result.
// The call is bounded by the configured timeout. Failures are returned as a
// classified *Error.
func (c *Client) Transcribe(ctx context.Context, data []byte, filename string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	c.log.Debug("Calling transcription provider", logger.Fields(
		"filename", filename,
		"size", len(data),
	))

	// No language parameter: the provider auto-detects. Verbose JSON is
	// requested so the detected language is reported when available.
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.cfg.Model,
		FilePath: filename,
		Reader:   bytes.NewReader(data),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	duration := time.Since(start)

	if err != nil {
		cerr := Classify(err)
		c.log.WithError(err).Error("Transcription failed", logger.Fields(
			"code", cerr.Code.String(),
			logger.FieldDuration, duration.Milliseconds(),
		))
		return nil, cerr
	}

	if resp.Text == "" {
		err := &Error{Code: CodeUnknown, Message: "provider returned empty transcript"}
		c.log.Error("Transcription failed", logger.Fields(
			"code", err.Code.String(),
			logger.FieldDuration, duration.Milliseconds(),
		))
		return nil, err
	}

	c.log.Info("Transcription successful", logger.Fields(
		"text_length", len(resp.Text),
		"language", languageOrDefault(resp.Language),
		logger.FieldDuration, duration.Milliseconds(),
	))

	return &Result{Text: resp.Text, Language: resp.Language}, nil
}

func languageOrDefault(lang string) string {
	if lang == "" {
		return "auto-detected"
	}
	return lang
}

// String renders the config for startup logging with the key masked.
func (c Config) String() string {
	return fmt.Sprintf("model=%s timeout=%s base_url=%s api_key=%s",
		c.Model, c.Timeout, c.BaseURL, util.MaskSecret(c.APIKey, 3))
}
