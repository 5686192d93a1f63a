package bookings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lawsite-backend/internal/httpx"
	"lawsite-backend/internal/metrics"
	"lawsite-backend/internal/middleware"
	"lawsite-backend/internal/slots"
	"lawsite-backend/internal/transport"
	"lawsite-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Mailer interface {
	SendBookingReceived(ctx context.Context, item Submission, slot slots.Slot) (string, error)
	SendBookingAlert(ctx context.Context, item Submission, slot slots.Slot) (string, error)
}

type Handler struct {
	service  *Service
	val      *validation.Validator
	log      *slog.Logger
	mailer   Mailer
	metrics  *metrics.Metrics
	location *time.Location
	async    func(func())
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, mailer Mailer, m *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		log:      log,
		mailer:   mailer,
		metrics:  m,
		location: service.location,
		async:    func(fn func()) { go fn() },
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	slotID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req SubmitRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("bookings submit: invalid json")
		transport.WriteInvalidJSON(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, slot, err := h.service.Submit(ctx, slotID, req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			log.Warn("bookings submit: validation error")
			transport.WriteValidation(w, verr.Fields)
		case errors.Is(err, ErrSlotNotFound):
			log.Warn("bookings submit: slot not found", slog.String("slot_id", slotID))
			transport.WriteNotFound(w)
		default:
			log.Error("bookings submit: database error", slog.String("error", err.Error()))
			transport.WriteDatabaseError(w)
		}
		return
	}

	h.metrics.BookingStored()
	if h.mailer != nil {
		itemCopy, slotCopy := item, slot
		h.async(func() { h.sendBookingEmails(log, itemCopy, slotCopy) })
	}

	log.Info("bookings submit: stored",
		slog.String("booking_id", item.ID),
		slog.String("slot_id", item.SlotID),
		slog.String("date", slot.Date),
		slog.String("start_time", slot.StartTime),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"booking": item,
		"slot":    slot.Public(h.location),
	})
}

func (h *Handler) sendBookingEmails(log *slog.Logger, item Submission, slot slots.Slot) {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	messageID, err := h.mailer.SendBookingReceived(ctx, item, slot)
	h.metrics.MailSent("booking_received", err)
	if err != nil {
		log.Warn("bookings email: client send failed", slog.String("booking_id", item.ID), slog.String("error", err.Error()))
	} else {
		log.Info("bookings email: client sent", slog.String("booking_id", item.ID), slog.String("message_id", messageID))
	}

	messageID, err = h.mailer.SendBookingAlert(ctx, item, slot)
	h.metrics.MailSent("booking_alert", err)
	if err != nil {
		log.Warn("bookings email: alert send failed", slog.String("booking_id", item.ID), slog.String("error", err.Error()))
		return
	}
	log.Info("bookings email: alert sent", slog.String("booking_id", item.ID), slog.String("message_id", messageID))
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin bookings list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{SlotID: strings.TrimSpace(r.URL.Query().Get("slot_id"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("paid")); raw != "" {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid paid filter", nil)
			return
		}
		filter.IsPaid = &paid
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, limit, offset)
	if err != nil {
		log.Error("admin bookings list: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("admin bookings list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin bookings get: not found", slog.String("booking_id", id))
			transport.WriteNotFound(w)
			return
		}
		log.Error("admin bookings get: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminSetPayment(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req PaymentRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin bookings payment: invalid json")
		transport.WriteInvalidJSON(w)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteValidation(w, httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.MarkPaid(ctx, id, *req.IsPaid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin bookings payment: not found", slog.String("booking_id", id))
			transport.WriteNotFound(w)
			return
		}
		log.Error("admin bookings payment: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("admin bookings payment: ok", slog.String("booking_id", id), slog.Bool("is_paid", item.IsPaid))
	transport.WriteJSON(w, http.StatusOK, item)
}
