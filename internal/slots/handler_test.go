package slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawsite-backend/internal/validation"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	svc, _, _ := newTestService(t)
	h := NewHandler(svc, validation.New(), testLogger())
	h.now = svc.now

	r := chi.NewRouter()
	r.Get("/slots", h.PublicList)
	r.Post("/admin/slots", h.AdminCreate)
	r.Get("/admin/slots", h.AdminList)
	r.Get("/admin/slots/{id}", h.AdminGet)
	r.Put("/admin/slots/{id}", h.AdminUpdate)
	r.Patch("/admin/slots/{id}/availability", h.AdminSetAvailability)
	r.Delete("/admin/slots/{id}", h.AdminDelete)
	return r, svc
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminCreateValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/admin/slots", `{"date":"2026-03-12","start_time":"10:00","end_time":"09:00","slot_type":"initial"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"end_time":"after_start"`)

	rec = doJSON(r, http.MethodPost, "/admin/slots", `{"date":"12/03/2026","start_time":"10:00","end_time":"11:00","slot_type":"initial"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"date"`)

	rec = doJSON(r, http.MethodPost, "/admin/slots", `{"date":"2026-03-12","start_time":"10:00","end_time":"11:00","slot_type":"initial","notes":"bring file"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPublicListHidesNotesAndPastSlots(t *testing.T) {
	r, svc := newTestRouter(t)
	ctx := context.Background()

	_, err := svc.CreateSlot(ctx, UpsertRequest{Date: "2026-03-12", StartTime: "10:00", EndTime: "11:00", SlotType: TypeFollowup, Notes: "internal only"})
	require.NoError(t, err)
	_, err = svc.CreateSlot(ctx, UpsertRequest{Date: "2026-03-09", StartTime: "10:00", EndTime: "11:00", SlotType: TypeGeneral})
	require.NoError(t, err)

	rec := doJSON(r, http.MethodGet, "/slots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "internal only")
	assert.NotContains(t, rec.Body.String(), "notes")

	var body struct {
		Timezone string       `json:"timezone"`
		Items    []PublicSlot `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Europe/Dublin", body.Timezone)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 60, body.Items[0].DurationMinutes)
	assert.Equal(t, TypeFollowup, body.Items[0].SlotType)
}

func TestAdminAvailabilityAndDelete(t *testing.T) {
	r, svc := newTestRouter(t)
	slot, err := svc.CreateSlot(context.Background(), UpsertRequest{Date: "2026-03-12", StartTime: "10:00", EndTime: "11:00", SlotType: TypeInitial})
	require.NoError(t, err)

	rec := doJSON(r, http.MethodPatch, "/admin/slots/"+slot.ID+"/availability", `{"is_available":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_available":false`)

	rec = doJSON(r, http.MethodPatch, "/admin/slots/"+slot.ID+"/availability", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodDelete, "/admin/slots/"+slot.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"submissions_deleted":2`)

	rec = doJSON(r, http.MethodGet, "/admin/slots/"+slot.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminListRejectsBadRange(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(r, http.MethodGet, "/admin/slots?from=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodGet, "/admin/slots?from=2026-03-01&to=2026-03-31", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

