package calendly

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"lawsite-backend/internal/metrics"
)

type fakeRepo struct {
	docs map[string]bson.M
}

func (f *fakeRepo) Upsert(ctx context.Context, externalID string, set bson.M, now time.Time) error {
	doc, ok := f.docs[externalID]
	if !ok {
		doc = bson.M{"created_at": now}
		f.docs[externalID] = doc
	}
	for k, v := range set {
		doc[k] = v
	}
	doc["updated_at"] = now
	return nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int64) ([]Booking, error) {
	return []Booking{}, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.docs)), nil
}

const createdBody = `{"event":"invitee.created","payload":{"uuid":"p-1","event":{"uuid":"e-1","start_time":"2026-03-02T10:00:00.000000Z","end_time":"2026-03-02T10:30:00.000000Z"},"invitee":{"uuid":"inv-1","name":"Jane","email":"jane@example.com"}}}`

func newTestHandler(key string) (*Handler, *fakeRepo, *metrics.Metrics) {
	repo := &fakeRepo{docs: map[string]bson.M{}}
	m := metrics.New("test")
	h := NewHandler(repo, key, time.UTC, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return h, repo, m
}

func send(h *Handler, method, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/webhooks/calendly", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)
	return rec
}

func TestWebhookSignature(t *testing.T) {
	h, repo, m := newTestHandler("shh")

	valid := "t=1700000000,v1=" + Sign("shh", []byte(createdBody))
	rec := send(h, http.MethodPost, createdBody, valid)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, repo.docs, "inv-1")

	rec = send(h, http.MethodPost, createdBody, "t=1700000000,v1="+Sign("other", []byte(createdBody)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(h, http.MethodPost, createdBody, "garbage")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(h, http.MethodPost, createdBody, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(h, http.MethodPost, createdBody+" ", valid)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.WebhookEvents.WithLabelValues("unknown", "forbidden")))
}

func TestWebhookWithoutKeySkipsVerification(t *testing.T) {
	h, repo, _ := newTestHandler("")
	rec := send(h, http.MethodPost, createdBody, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, repo.docs, 1)
}

func TestWebhookUpserts(t *testing.T) {
	h, repo, _ := newTestHandler("")

	require.Equal(t, http.StatusNoContent, send(h, http.MethodPost, createdBody, "").Code)
	doc := repo.docs["inv-1"]
	assert.Equal(t, StatusCreated, doc["status"])
	assert.Equal(t, "Jane", doc["invitee_name"])
	start, ok := doc["start_time"].(*time.Time)
	require.True(t, ok)
	assert.Equal(t, 10, start.Hour())

	canceled := `{"event":"invitee.canceled","payload":{"invitee":{"uuid":"inv-1"}}}`
	require.Equal(t, http.StatusNoContent, send(h, http.MethodPost, canceled, "").Code)
	assert.Len(t, repo.docs, 1)
	assert.Equal(t, StatusCanceled, repo.docs["inv-1"]["status"])
	assert.Equal(t, "Jane", repo.docs["inv-1"]["invitee_name"])

	ignored := `{"event":"routing_form_submission.created","payload":{"uuid":"x"}}`
	require.Equal(t, http.StatusNoContent, send(h, http.MethodPost, ignored, "").Code)
	assert.Len(t, repo.docs, 1)
}

func TestWebhookExternalIDFallbacks(t *testing.T) {
	h, repo, _ := newTestHandler("")
	send(h, http.MethodPost, `{"event":"invitee.canceled","payload":{"uuid":"p-9","event":{"uuid":"e-9"}}}`, "")
	send(h, http.MethodPost, `{"event":"invitee.canceled","payload":{"event":{"uuid":"e-8"}}}`, "")
	send(h, http.MethodPost, `{"event":"invitee.canceled","payload":{}}`, "")
	assert.Contains(t, repo.docs, "p-9")
	assert.Contains(t, repo.docs, "e-8")
	assert.Contains(t, repo.docs, "unknown")
}

func TestWebhookErrors(t *testing.T) {
	h, _, _ := newTestHandler("")
	assert.Equal(t, http.StatusMethodNotAllowed, send(h, http.MethodGet, "", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(h, http.MethodPost, "{not json", "").Code)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"a":1}`)
	sig := Sign("key", body)
	assert.NoError(t, VerifySignature("key", "v1="+sig, body))
	assert.NoError(t, VerifySignature("key", "t=1,v1="+sig, body))
	assert.ErrorIs(t, VerifySignature("key", "t=1", body), ErrSignatureMismatch)
	assert.ErrorIs(t, VerifySignature("key", "t=1,oops", body), ErrMalformedSignature)
}
