package calendly

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"lawsite-backend/internal/httpx"
	"lawsite-backend/internal/metrics"
	"lawsite-backend/internal/middleware"
	"lawsite-backend/internal/transport"
)

type Handler struct {
	repo       Repository
	signingKey string
	location   *time.Location
	metrics    *metrics.Metrics
	log        *slog.Logger
	now        func() time.Time
}

// NewHandler skips signature checks when signingKey is empty.
func NewHandler(repo Repository, signingKey string, location *time.Location, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		repo:       repo,
		signingKey: signingKey,
		location:   location,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, httpx.MaxBodyBytes))
	if err != nil {
		log.Warn("calendly webhook: read failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if h.signingKey != "" {
		if err := VerifySignature(h.signingKey, r.Header.Get(SignatureHeader), body); err != nil {
			log.Warn("calendly webhook: rejected", slog.String("error", err.Error()))
			h.metrics.WebhookEvent("unknown", "forbidden")
			if errors.Is(err, ErrMalformedSignature) {
				http.Error(w, "Bad signature header", http.StatusForbidden)
				return
			}
			http.Error(w, "Invalid signature", http.StatusForbidden)
			return
		}
	}

	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		log.Warn("calendly webhook: invalid json")
		h.metrics.WebhookEvent("unknown", "bad_request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id := env.Payload.externalID()
	var set bson.M
	switch env.Event {
	case EventInviteeCreated:
		set = bson.M{
			"status":        StatusCreated,
			"start_time":    env.Payload.Event.StartTime,
			"end_time":      env.Payload.Event.EndTime,
			"invitee_name":  env.Payload.Invitee.Name,
			"invitee_email": env.Payload.Invitee.Email,
		}
	case EventInviteeCanceled:
		set = bson.M{"status": StatusCanceled}
	default:
		log.Info("calendly webhook: ignored", slog.String("event", env.Event))
		h.metrics.WebhookEvent("other", "ignored")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.Upsert(ctx, id, set, h.now().In(h.location)); err != nil {
		log.Error("calendly webhook: database error", slog.String("error", err.Error()))
		h.metrics.WebhookEvent(env.Event, "error")
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("calendly webhook: stored", slog.String("event", env.Event), slog.String("calendly_id", id))
	h.metrics.WebhookEvent(env.Event, "stored")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.repo.List(ctx, limit, offset)
	if err != nil {
		log.Error("admin calendly list: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}
	total, err := h.repo.Count(ctx)
	if err != nil {
		log.Error("admin calendly list: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("admin calendly list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}
