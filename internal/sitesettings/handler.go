package sitesettings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"lawsite-backend/internal/httpx"
	"lawsite-backend/internal/middleware"
	"lawsite-backend/internal/transport"
	"lawsite-backend/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{service: service, val: val, log: log}
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Current(ctx)
	if err != nil {
		log.Error("admin homepage get: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin homepage update: invalid json")
		transport.WriteInvalidJSON(w)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin homepage update: validation error")
		transport.WriteValidation(w, httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, req)
	if err != nil {
		log.Error("admin homepage update: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("admin homepage update: ok")
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin homepage create: invalid json")
		transport.WriteInvalidJSON(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeServiceError(w, log, "admin homepage create", err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx); err != nil {
		h.writeServiceError(w, log, "admin homepage delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	if errors.Is(err, ErrSingleton) {
		log.Warn(op + ": singleton violation")
		transport.WriteError(w, http.StatusMethodNotAllowed, ErrSingleton.Error(), nil)
		return
	}
	log.Error(op+": database error", slog.String("error", err.Error()))
	transport.WriteDatabaseError(w)
}
