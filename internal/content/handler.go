package content

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lawsite-backend/internal/httpx"
	"lawsite-backend/internal/middleware"
	"lawsite-backend/internal/sitesettings"
	"lawsite-backend/internal/transport"
	"lawsite-backend/internal/validation"
)

// Resource exposes one content collection over HTTP.
type Resource[T document, R any] struct {
	collection *Collection[T, R]
	val        *validation.Validator
	log        *slog.Logger
	area       string
}

func NewResource[T document, R any](collection *Collection[T, R], area string, val *validation.Validator, log *slog.Logger) *Resource[T, R] {
	return &Resource[T, R]{collection: collection, val: val, log: log, area: area}
}

func (h *Resource[T, R]) PublicList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 100)
	if err != nil {
		log.Warn(h.area+" public list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.collection.ListPublic(ctx, limit, offset)
	if err != nil {
		log.Error(h.area+" public list: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info(h.area+" public list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Resource[T, R]) PublicGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		log.Warn(h.area + " public get: missing slug")
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.collection.GetPublic(ctx, slug)
	if err != nil {
		h.writeError(w, log, "public get", err)
		return
	}

	log.Info(h.area+" public get: ok", slog.String("slug", slug))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Resource[T, R]) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin "+h.area+" list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.collection.ListAdmin(ctx, limit, offset)
	if err != nil {
		log.Error("admin "+h.area+" list: database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("admin "+h.area+" list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Resource[T, R]) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.collection.Get(ctx, id)
	if err != nil {
		h.writeError(w, log, "admin get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Resource[T, R]) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	req, ok := h.decode(w, r, log, "create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.collection.Create(ctx, req)
	if err != nil {
		h.writeError(w, log, "admin create", err)
		return
	}

	log.Info("admin "+h.area+" create: ok", slog.String("id", item.docID()), slog.String("slug", item.docSlug()))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Resource[T, R]) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin " + h.area + " update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	req, ok := h.decode(w, r, log, "update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.collection.Update(ctx, id, req)
	if err != nil {
		h.writeError(w, log, "admin update", err)
		return
	}

	log.Info("admin "+h.area+" update: ok", slog.String("id", id), slog.String("slug", item.docSlug()))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Resource[T, R]) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.collection.Delete(ctx, id); err != nil {
		h.writeError(w, log, "admin delete", err)
		return
	}

	log.Info("admin "+h.area+" delete: ok", slog.String("id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Resource[T, R]) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, action string) (R, bool) {
	var req R
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin " + h.area + " " + action + ": invalid json")
		transport.WriteInvalidJSON(w)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin " + h.area + " " + action + ": validation error")
		transport.WriteValidation(w, httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return req, false
	}
	return req, true
}

func (h *Resource[T, R]) writeError(w http.ResponseWriter, log *slog.Logger, action string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(h.area + " " + action + ": not found")
		transport.WriteNotFound(w)
	case errors.Is(err, ErrSlugExists):
		log.Warn(h.area + " " + action + ": slug exists")
		transport.WriteError(w, http.StatusConflict, "slug already exists", nil)
	case errors.Is(err, ErrInvalidSlug):
		transport.WriteValidation(w, map[string]string{"slug": "invalid"})
	default:
		log.Error(h.area+" "+action+": database error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
	}
}

type SettingsReader interface {
	Current(ctx context.Context) (sitesettings.HomepageSettings, error)
}

// HomeHandler serves the landing page summary.
type HomeHandler struct {
	service  *Service
	settings SettingsReader
	log      *slog.Logger
}

func NewHomeHandler(service *Service, settings SettingsReader, log *slog.Logger) *HomeHandler {
	return &HomeHandler{service: service, settings: settings, log: log}
}

const homeSectionSize = 3

func (h *HomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	settings, err := h.settings.Current(ctx)
	if err != nil {
		log.Error("home get: settings error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}
	areas, err := h.service.Areas.Latest(ctx, homeSectionSize)
	if err != nil {
		log.Error("home get: practice areas error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}
	cases, err := h.service.Cases.Latest(ctx, homeSectionSize)
	if err != nil {
		log.Error("home get: cases error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}
	posts, err := h.service.Posts.Latest(ctx, homeSectionSize)
	if err != nil {
		log.Error("home get: posts error", slog.String("error", err.Error()))
		transport.WriteDatabaseError(w)
		return
	}

	log.Info("home get: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"settings":       settings,
		"practice_areas": areas,
		"latest_cases":   cases,
		"latest_posts":   posts,
	})
}
