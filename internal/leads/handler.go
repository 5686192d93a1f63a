package leads

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"lawsite-backend/internal/httpx"
	"lawsite-backend/internal/metrics"
	"lawsite-backend/internal/middleware"
	"lawsite-backend/internal/transport"
)

type Mailer interface {
	SendEnquiryAlert(ctx context.Context, lead Lead) (string, error)
}

type Handler struct {
	service *Service
	log     *slog.Logger
	mailer  Mailer
	metrics *metrics.Metrics
	async   func(func())
}

func NewHandler(service *Service, log *slog.Logger, mailer Mailer, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		log:     log,
		mailer:  mailer,
		metrics: m,
		async:   func(fn func()) { go fn() },
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req ContactRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact create: invalid json")
		transport.WriteInvalidJSON(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.Create(ctx, req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Warn("contact create: validation error")
			transport.WriteValidation(w, verr.Fields)
			return
		}
		log.Error("contact create: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	h.metrics.LeadStored()
	if h.mailer != nil {
		leadCopy := lead
		h.async(func() { h.sendAlert(log, leadCopy) })
	}

	log.Info("contact create: stored", slog.String("lead_id", lead.ID))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     lead.ID,
		"status": "received",
	})
}

func (h *Handler) sendAlert(log *slog.Logger, lead Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	messageID, err := h.mailer.SendEnquiryAlert(ctx, lead)
	h.metrics.MailSent("enquiry_alert", err)
	if err != nil {
		log.Warn("contact email: alert send failed", slog.String("lead_id", lead.ID), slog.String("error", err.Error()))
		return
	}
	log.Info("contact email: alert sent", slog.String("lead_id", lead.ID), slog.String("message_id", messageID))
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin leads list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, limit, offset)
	if err != nil {
		log.Error("admin leads list: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("admin leads list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}
