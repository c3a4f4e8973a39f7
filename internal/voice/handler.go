// Package voice implements the capture endpoint: one audio upload in, one
// transcription call, one email out. No retries, no persistence; the email is
// the only durable artifact.
package voice

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/voice-capture/internal/logger"
	"github.com/skillsenselab/voice-capture/internal/mail"
	"github.com/skillsenselab/voice-capture/internal/observability"
	"github.com/skillsenselab/voice-capture/internal/server"
	"github.com/skillsenselab/voice-capture/internal/server/middleware"
	"github.com/skillsenselab/voice-capture/internal/transcribe"
)

const (
	// MaxUploadBytes caps a single audio file at 100 MiB.
	MaxUploadBytes = 100 << 20

	fileField = "file"
)

// allowedTypes is the closed set of accepted audio MIME types. Anything else
// is rejected before any bytes reach the transcription provider.
var allowedTypes = map[string]struct{}{
	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/mp4":   {},
	"audio/wav":   {},
	"audio/webm":  {},
	"audio/ogg":   {},
	"audio/x-m4a": {},
}

// Transcriber converts audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, filename string) (*transcribe.Result, error)
}

// Mailer delivers a transcript to the fixed recipient.
type Mailer interface {
	Send(ctx context.Context, text string, meta mail.Metadata) error
}

// Handler runs the capture pipeline.
type Handler struct {
	transcriber Transcriber
	mailer      Mailer
	recorder    *observability.Recorder
	log         *logger.Logger

	maxUploadBytes int64
}

// NewHandler creates the capture handler.
func NewHandler(t Transcriber, m Mailer, rec *observability.Recorder, log *logger.Logger) *Handler {
	return &Handler{
		transcriber:    t,
		mailer:         m,
		recorder:       rec,
		log:            log.WithComponent("voice"),
		maxUploadBytes: MaxUploadBytes,
	}
}

// Capture handles POST /voice. The pipeline is strictly sequential: validate,
// transcribe, email. Each step attempted emits exactly one metric event;
// failed steps abort the rest. Callers only ever see generic error messages.
func (h *Handler) Capture(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	log := h.log.WithRequestID(c.GetString(middleware.RequestIDKey))

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.failValidation(c, start, "oversize", "Audio file too large")
			return
		}
		h.failValidation(c, start, "missing_file", "No audio file provided")
		return
	}

	files := form.File[fileField]
	switch {
	case len(files) == 0:
		h.failValidation(c, start, "missing_file", "No audio file provided")
		return
	case len(files) > 1:
		h.failValidation(c, start, "multiple_files", "Multiple audio files provided")
		return
	}
	upload := files[0]

	mediaType := normalizeMediaType(upload.Header.Get("Content-Type"))
	if _, ok := allowedTypes[mediaType]; !ok {
		h.failValidation(c, start, "invalid_format", "Invalid audio format: "+mediaType)
		return
	}
	if upload.Size == 0 {
		h.failValidation(c, start, "empty_file", "Audio file is empty")
		return
	}
	if upload.Size > h.maxUploadBytes {
		h.failValidation(c, start, "oversize", "Audio file too large")
		return
	}

	data, err := readUpload(upload)
	if err != nil {
		log.WithError(err).Error("Reading upload failed")
		h.recorder.RecordRequest(ctx, "upload_read", time.Since(start))
		server.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info("Processing voice capture", logger.Fields(
		"filename", upload.Filename,
		"mime_type", mediaType,
		"size", upload.Size,
	))

	transcribeStart := time.Now()
	result, err := h.transcriber.Transcribe(ctx, data, upload.Filename)
	h.recorder.RecordTranscription(ctx, transcribeCode(err), time.Since(transcribeStart))
	if err != nil {
		h.recorder.RecordRequest(ctx, "transcription", time.Since(start))
		server.RespondError(c, http.StatusInternalServerError, "Failed to transcribe audio")
		return
	}

	mailStart := time.Now()
	err = h.mailer.Send(ctx, result.Text, mail.Metadata{
		Language:   result.Language,
		Filename:   upload.Filename,
		Size:       upload.Size,
		CapturedAt: time.Now().UTC(),
	})
	h.recorder.RecordMailSend(ctx, mailCode(err), time.Since(mailStart))
	if err != nil {
		// The email is the only durable sink, so keep the transcript
		// recoverable from the log when delivery fails.
		log.Error("Email dispatch failed, transcript retained in log", logger.Fields(
			"text", result.Text,
			"language", result.Language,
			"filename", upload.Filename,
		))
		h.recorder.RecordRequest(ctx, "mail", time.Since(start))
		server.RespondError(c, http.StatusInternalServerError, "Failed to send email")
		return
	}

	h.recorder.RecordRequest(ctx, "", time.Since(start))
	server.RespondOK(c, gin.H{
		"text":     result.Text,
		"language": languageOrUnknown(result.Language),
	})
}

func (h *Handler) failValidation(c *gin.Context, start time.Time, reason, message string) {
	ctx := c.Request.Context()
	h.recorder.RecordValidationFailure(ctx, reason)
	h.recorder.RecordRequest(ctx, "validation", time.Since(start))
	server.RespondError(c, http.StatusBadRequest, message)
}

func readUpload(upload *multipart.FileHeader) ([]byte, error) {
	f, err := upload.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// normalizeMediaType strips parameters such as codecs and lowercases the base
// type, so "audio/ogg; codecs=opus" matches the allow set.
func normalizeMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func transcribeCode(err error) string {
	if err == nil {
		return ""
	}
	var terr *transcribe.Error
	if errors.As(err, &terr) {
		return terr.Code.String()
	}
	return transcribe.CodeUnknown.String()
}

func mailCode(err error) string {
	if err == nil {
		return ""
	}
	var merr *mail.Error
	if errors.As(err, &merr) {
		return merr.Code.String()
	}
	return mail.CodeUnknown.String()
}

func languageOrUnknown(lang string) string {
	if lang == "" {
		return "unknown"
	}
	return lang
}
