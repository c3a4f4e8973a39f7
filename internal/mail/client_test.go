package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/skillsenselab/voice-capture/internal/logger"
)

// ---------------------------------------------------------------------------
// Send
// ---------------------------------------------------------------------------

func TestSendNotInitialized(t *testing.T) {
	var c *Client
	err := c.Send(context.Background(), "hello", Metadata{})
	var merr *Error
	if !errors.As(err, &merr) || merr.Code != CodeNotInitialized {
		t.Fatalf("expected NOT_INITIALIZED, got %v", err)
	}
}

func TestSendConnectionRefused(t *testing.T) {
	// Grab a port with no listener behind it.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := lis.Addr().(*net.TCPAddr)
	lis.Close()

	c, err := NewClient(Config{
		Host:     "127.0.0.1",
		Port:     addr.Port,
		Username: "user",
		Password: "pass",
		From:     "from@example.com",
		To:       "to@example.com",
		Timeout:  2 * time.Second,
	}, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("unexpected error building client: %v", err)
	}

	err = c.Send(context.Background(), "hello", Metadata{})
	if !IsConnection(err) {
		t.Fatalf("expected SMTP_CONNECTION_FAILED, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Classify
// ---------------------------------------------------------------------------

func TestClassifyTimeout(t *testing.T) {
	err := Classify(fmt.Errorf("send: %w", context.DeadlineExceeded))
	if err.Code != CodeTimeout {
		t.Errorf("expected TIMEOUT, got %s", err.Code)
	}
}

func TestClassifyConnectionRefused(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	err := Classify(fmt.Errorf("dial: %w", opErr))
	if err.Code != CodeConnection {
		t.Errorf("expected SMTP_CONNECTION_FAILED, got %s", err.Code)
	}
}

func TestClassifyAuthByStatusCode(t *testing.T) {
	for _, code := range []int{530, 534, 535} {
		err := Classify(&textproto.Error{Code: code, Msg: "5.7.8 Error"})
		if err.Code != CodeAuth {
			t.Errorf("status %d: expected AUTH_FAILED, got %s", code, err.Code)
		}
	}
}

func TestClassifyAuthByReplyText(t *testing.T) {
	err := Classify(errors.New("535-5.7.8 Invalid login: account disabled"))
	if err.Code != CodeAuth {
		t.Errorf("expected AUTH_FAILED fallback, got %s", err.Code)
	}
}

func TestClassifyOtherTransportError(t *testing.T) {
	err := Classify(&textproto.Error{Code: 552, Msg: "message too large"})
	if err.Code != CodeSend {
		t.Errorf("expected SEND_FAILED, got %s", err.Code)
	}
}

func TestClassifyUnknown(t *testing.T) {
	err := Classify(errors.New("something odd"))
	if err.Code != CodeUnknown {
		t.Errorf("expected UNKNOWN_ERROR, got %s", err.Code)
	}
}

func TestCodeStrings(t *testing.T) {
	expected := map[Code]string{
		CodeNotInitialized: "NOT_INITIALIZED",
		CodeConnection:     "SMTP_CONNECTION_FAILED",
		CodeAuth:           "AUTH_FAILED",
		CodeTimeout:        "TIMEOUT",
		CodeSend:           "SEND_FAILED",
		CodeUnknown:        "UNKNOWN_ERROR",
	}
	for code, want := range expected {
		if got := code.String(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Body format
// ---------------------------------------------------------------------------

func TestBuildBody(t *testing.T) {
	captured := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	body := buildBody("buy milk", Metadata{
		Language:   "en",
		Filename:   "note.wav",
		CapturedAt: captured,
	})

	if !strings.HasPrefix(body, "buy milk\n\n---\n") {
		t.Errorf("unexpected body prefix: %q", body)
	}
	for _, want := range []string{
		"Captured at: 2025-06-01T12:30:00Z",
		"Language: en",
		"Filename: note.wav",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body:\n%s", want, body)
		}
	}
}

func TestBuildBodyOmitsEmptyFilename(t *testing.T) {
	body := buildBody("hello", Metadata{CapturedAt: time.Now()})
	if strings.Contains(body, "Filename:") {
		t.Errorf("filename line must be omitted when empty:\n%s", body)
	}
	if !strings.Contains(body, "Language: auto-detected") {
		t.Errorf("expected auto-detected language default:\n%s", body)
	}
}
