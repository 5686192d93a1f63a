package assist

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lawsite-backend/internal/httpx"
	"lawsite-backend/internal/metrics"
	"lawsite-backend/internal/middleware"
	"lawsite-backend/internal/transport"
)

const (
	ReplyPostOnly      = "POST only"
	ReplyUnavailable   = "The assistant is currently unavailable. Please use the contact form or book a consultation."
	ReplySlowDown      = "You're sending messages a bit quickly, please wait a moment and try again."
	ReplyInvalidFormat = "Invalid request format"
	ReplyEmptyMessage  = "Please enter a message"
	ReplyFallback      = "Sorry, I'm unavailable right now. For anything important, please use the contact form or book a consultation."
)

const historyTurns = 8

type Request struct {
	Message string    `json:"message"`
	History []Message `json:"history"`
}

type Response struct {
	Reply string `json:"reply"`
}

type Handler struct {
	enabled   bool
	throttle  *Throttle
	sitemap   SitemapSource
	completer Completer
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

func NewHandler(enabled bool, throttle *Throttle, sitemap SitemapSource, completer Completer, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		enabled:   enabled,
		throttle:  throttle,
		sitemap:   sitemap,
		completer: completer,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	if r.Method != http.MethodPost {
		h.reply(w, http.StatusMethodNotAllowed, "method_not_allowed", ReplyPostOnly)
		return
	}
	if !h.enabled {
		h.reply(w, http.StatusOK, "disabled", ReplyUnavailable)
		return
	}

	ctx := r.Context()
	now := h.now()
	key := RateKey(httpx.ClientIP(r), r.UserAgent())

	window, ok := h.throttle.Admit(ctx, key, now)
	if !ok {
		log.Info("assist handle: throttled")
		h.reply(w, http.StatusOK, "throttled", ReplySlowDown)
		return
	}

	req, err := decodeRequest(r.Body)
	if err != nil {
		log.Warn("assist handle: invalid json")
		h.reply(w, http.StatusBadRequest, "bad_request", ReplyInvalidFormat)
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		h.reply(w, http.StatusBadRequest, "bad_request", ReplyEmptyMessage)
		return
	}

	promptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	sitemap := BuildSitemap(promptCtx, h.sitemap)
	cancel()

	messages := make([]Message, 0, historyTurns+2)
	messages = append(messages, Message{Role: "system", Content: systemMessage(sitemap)})
	messages = append(messages, trimHistory(req.History)...)
	messages = append(messages, Message{Role: "user", Content: message})

	outcome := "ok"
	reply, err := h.completer.Complete(ctx, messages)
	if err != nil {
		log.Warn("assist handle: upstream failed", slog.String("error", err.Error()))
		outcome = "fallback"
		reply = ReplyFallback
	}

	h.throttle.Record(ctx, key, window, now)

	h.reply(w, http.StatusOK, outcome, Redact(reply))
}

func (h *Handler) reply(w http.ResponseWriter, status int, outcome, text string) {
	h.metrics.AssistOutcome(outcome)
	transport.WriteJSON(w, status, Response{Reply: text})
}

// decodeRequest is lenient about unknown fields, unlike the form endpoints.
func decodeRequest(body io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(io.LimitReader(body, httpx.MaxBodyBytes)).Decode(&req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// trimHistory keeps the last turns and forwards only user and assistant text.
func trimHistory(history []Message) []Message {
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	out := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, Message{Role: m.Role, Content: m.Content})
	}
	return out
}
