package slots

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lawsite-backend/internal/httpx"
	"lawsite-backend/internal/middleware"
	"lawsite-backend/internal/schedule"
	"lawsite-backend/internal/transport"
	"lawsite-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
	now     func() time.Time
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
		now:     time.Now,
	}
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListOpenSlots(ctx)
	if err != nil {
		log.Error("slots public list: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	loc := h.service.Location()
	upcoming := h.service.Upcoming(items, h.now())
	out := make([]PublicSlot, 0, len(upcoming))
	for _, slot := range upcoming {
		out = append(out, slot.Public(loc))
	}

	log.Info("slots public list: ok", slog.Int("count", len(out)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"timezone": loc.String(),
		"items":    out,
	})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		log.Warn("admin slots list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := AdminListFilter{
		From:          strings.TrimSpace(r.URL.Query().Get("from")),
		To:            strings.TrimSpace(r.URL.Query().Get("to")),
		OnlyAvailable: r.URL.Query().Get("available") == "true",
	}
	for field, value := range map[string]string{"from": filter.From, "to": filter.To} {
		if value == "" {
			continue
		}
		if _, err := schedule.ParseDate(value, h.service.Location()); err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{field: "date"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		log.Error("admin slots list: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("admin slots list: ok", slog.Int("count", len(items)))
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

	slot, err := h.service.GetSlot(ctx, id)
	if err != nil {
		h.writeServiceError(w, log, "admin slots get", err)
		return
	}

	loc := h.service.Location()
	transport.WriteJSON(w, http.StatusOK, AdminSlot{
		Slot:            slot,
		DurationMinutes: slot.DurationMinutes(loc),
		InPast:          slot.IsInPast(loc, h.now()),
	})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin slots create: invalid json")
		transport.WriteInvalidJSON(w)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin slots create: validation error")
		transport.WriteValidation(w, httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	slot, err := h.service.CreateSlot(ctx, req)
	if err != nil {
		h.writeServiceError(w, log, "admin slots create", err)
		return
	}

	log.Info("admin slots create: ok", slog.String("slot_id", slot.ID), slog.String("date", slot.Date), slog.String("start_time", slot.StartTime))
	transport.WriteJSON(w, http.StatusCreated, slot)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin slots update: invalid json")
		transport.WriteInvalidJSON(w)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin slots update: validation error")
		transport.WriteValidation(w, httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	slot, err := h.service.UpdateSlot(ctx, id, req)
	if err != nil {
		h.writeServiceError(w, log, "admin slots update", err)
		return
	}

	log.Info("admin slots update: ok", slog.String("slot_id", slot.ID))
	transport.WriteJSON(w, http.StatusOK, slot)
}

func (h *Handler) AdminSetAvailability(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req AvailabilityRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin slots availability: invalid json")
		transport.WriteInvalidJSON(w)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteValidation(w, httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := h.service.SetAvailability(ctx, id, *req.IsAvailable)
	if err != nil {
		h.writeServiceError(w, log, "admin slots availability", err)
		return
	}

	log.Info("admin slots availability: ok", slog.String("slot_id", slot.ID), slog.Bool("is_available", slot.IsAvailable))
	transport.WriteJSON(w, http.StatusOK, slot)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	purged, err := h.service.DeleteSlot(ctx, id)
	if err != nil {
		h.writeServiceError(w, log, "admin slots delete", err)
		return
	}

	log.Info("admin slots delete: ok", slog.String("slot_id", id), slog.Int64("submissions_deleted", purged))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "deleted",
		"submissions_deleted": purged,
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteNotFound(w)
	case errors.Is(err, ErrInvalidTimeRange):
		log.Warn(op + ": end before start")
		transport.WriteValidation(w, map[string]string{"end_time": "after_start"})
	case errors.Is(err, ErrInvalidSlotType):
		transport.WriteValidation(w, map[string]string{"slot_type": "oneof"})
	case errors.Is(err, schedule.ErrInvalidDate):
		transport.WriteValidation(w, map[string]string{"date": "date"})
	case errors.Is(err, schedule.ErrInvalidTime):
		transport.WriteValidation(w, map[string]string{"start_time": "clock"})
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
	}
}
