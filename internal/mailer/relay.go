package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Defaults applied to empty form fields and unset addresses.
const (
	DefaultName      = "No name"
	DefaultReplyTo   = "no-reply@example.com"
	DefaultFromEmail = "noreply@boroughbotanicals.example.com"
)

// Config carries the relay credentials and addresses.
type Config struct {
	APIKey    string
	FromEmail string
	ToEmail   string
}

// ContactRequest is the submitted form body. All fields are optional.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Response is the JSON body returned to the form.
type Response struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// Relay turns form submissions into one email each. It never retries.
type Relay struct {
	cfg    Config
	dial   func(apiKey string) Mailer
	logger *zap.Logger
}

// RelayOption customises a Relay.
type RelayOption func(*Relay)

// WithMailerFactory replaces the SendGrid client constructor.
func WithMailerFactory(dial func(apiKey string) Mailer) RelayOption {
	return func(r *Relay) {
		if dial != nil {
			r.dial = dial
		}
	}
}

// WithLogger sets the relay logger.
func WithLogger(logger *zap.Logger) RelayOption {
	return func(r *Relay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRelay constructs a relay. An empty FromEmail falls back to DefaultFromEmail.
func NewRelay(cfg Config, opts ...RelayOption) *Relay {
	if cfg.FromEmail == "" {
		cfg.FromEmail = DefaultFromEmail
	}
	r := &Relay{
		cfg:    cfg,
		dial:   func(key string) Mailer { return NewSendGrid(key) },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuildMessage fills defaults and renders the subject and both bodies.
func BuildMessage(req ContactRequest, from, to string) Message {
	name := orDefault(req.Name, DefaultName)
	email := orDefault(req.Email, DefaultReplyTo)
	return Message{
		From:    from,
		To:      to,
		Subject: "Website contact from " + name,
		Text:    fmt.Sprintf("Name: %s\nEmail: %s\n\n%s", name, email, req.Message),
		HTML: fmt.Sprintf("<p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p><p>%s</p>",
			name, email, strings.ReplaceAll(req.Message, "\n", "<br>")),
	}
}

// Handle processes one raw request body and returns the HTTP status and the
// response payload. An empty body is treated as an empty form.
func (r *Relay) Handle(ctx context.Context, body []byte) (int, Response) {
	var req ContactRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			r.logger.Warn("contact form body invalid", zap.Error(err))
			return http.StatusInternalServerError, Response{Error: err.Error()}
		}
	}
	if r.cfg.APIKey == "" {
		return http.StatusInternalServerError, Response{Error: "Missing SENDGRID_API_KEY in environment"}
	}
	if r.cfg.ToEmail == "" {
		return http.StatusInternalServerError, Response{Error: "Missing TO_EMAIL in environment"}
	}
	msg := BuildMessage(req, r.cfg.FromEmail, r.cfg.ToEmail)
	if err := r.dial(r.cfg.APIKey).Send(ctx, msg); err != nil {
		r.logger.Error("contact relay send failed", zap.Error(err))
		return http.StatusInternalServerError, Response{Error: err.Error()}
	}
	r.logger.Info("contact relayed", zap.String("subject", msg.Subject))
	return http.StatusOK, Response{OK: true}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
