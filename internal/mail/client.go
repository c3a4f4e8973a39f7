// Package mail wraps the SMTP relay behind a single send call with a closed
// failure taxonomy. The client is built once at startup; the message body
// format is fixed.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/skillsenselab/voice-capture/internal/logger"
)

const (
	// Subject is the fixed subject line for every transcript email.
	Subject = "[GTD][VOICE] Transcribed Audio"

	defaultPort    = 587
	defaultTimeout = 30 * time.Second

	// sslPort uses implicit TLS; every other port negotiates STARTTLS.
	sslPort = 465
)

// Config holds SMTP relay configuration.
type Config struct {
	Host     string        `mapstructure:"host" validate:"required"`
	Port     int           `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username string        `mapstructure:"user" validate:"required"`
	Password string        `mapstructure:"pass" validate:"required"`
	From     string        `mapstructure:"from" validate:"required,email"`
	To       string        `mapstructure:"to" validate:"required,email"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Metadata describes the capture an email body is built from.
type Metadata struct {
	Language   string
	Filename   string
	Size       int64
	CapturedAt time.Time
}

// Client sends transcript emails through the configured relay. One send per
// request, no retries.
type Client struct {
	cfg  Config
	smtp *gomail.Client
	log  *logger.Logger
}

// NewClient builds the SMTP client once from configuration. Port 465 selects
// implicit TLS; any other port negotiates opportunistic STARTTLS.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTimeout(cfg.Timeout),
	}
	if cfg.Port == sslPort {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	smtp, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}

	log = log.WithComponent("mail")
	log.Info("Mail client initialized", logger.Fields(
		"host", cfg.Host,
		"port", cfg.Port,
	))

	return &Client{cfg: cfg, smtp: smtp, log: log}, nil
}

// Send delivers the transcript to the fixed recipient. Failures are returned
// as a classified *Error; the transcript itself is never included in the
// error.
func (c *Client) Send(ctx context.Context, text string, meta Metadata) error {
	if c == nil || c.smtp == nil {
		return &Error{Code: CodeNotInitialized, Message: "mail client not initialized"}
	}

	msg := gomail.NewMsg()
	if err := msg.From(c.cfg.From); err != nil {
		return &Error{Code: CodeUnknown, Message: "invalid sender address", Err: err}
	}
	if err := msg.To(c.cfg.To); err != nil {
		return &Error{Code: CodeUnknown, Message: "invalid recipient address", Err: err}
	}
	msg.Subject(Subject)
	msg.SetBodyString(gomail.TypeTextPlain, buildBody(text, meta))

	start := time.Now()
	c.log.Debug("Sending email", logger.Fields(
		"to", c.cfg.To,
		"text_length", len(text),
	))

	if err := c.smtp.DialAndSendWithContext(ctx, msg); err != nil {
		cerr := Classify(err)
		c.log.WithError(err).Error("Email send failed", logger.Fields(
			"code", cerr.Code.String(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		return cerr
	}

	c.log.Info("Email sent", logger.Fields(
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return nil
}

// buildBody renders the transcript followed by the fixed metadata footer.
func buildBody(text string, meta Metadata) string {
	capturedAt := meta.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}
	language := meta.Language
	if language == "" {
		language = "auto-detected"
	}

	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "Captured at: %s\n", capturedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Language: %s", language)
	if meta.Filename != "" {
		fmt.Fprintf(&b, "\nFilename: %s", meta.Filename)
	}
	return b.String()
}
