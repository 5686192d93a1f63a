package assist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

const (
	windowSpan     = 30 * time.Second
	blockSpan      = 10 * time.Second
	windowCapacity = 3
	windowTTL      = 30 * time.Second
	uaPrefixLen    = 60
)

// RateKey hashes the caller address and a user agent prefix.
func RateKey(ip, userAgent string) string {
	if len(userAgent) > uaPrefixLen {
		userAgent = userAgent[:uaPrefixLen]
	}
	sum := sha256.Sum256([]byte(ip + "|" + userAgent))
	return "assist_rl_" + hex.EncodeToString(sum[:])
}

// Throttle is a soft per caller limit. The read-modify-write on the store is
// not atomic; two racing requests may be off by one.
type Throttle struct {
	store WindowStore
	log   *slog.Logger
}

func NewThrottle(store WindowStore, log *slog.Logger) *Throttle {
	return &Throttle{store: store, log: log}
}

// Admit loads and prunes the caller window. When the caller must slow down it
// returns false; a new block is persisted, an active one is left as stored.
func (t *Throttle) Admit(ctx context.Context, key string, now time.Time) (Window, bool) {
	w, _, err := t.store.Get(ctx, key)
	if err != nil {
		t.log.Warn("assist throttle: window read failed", slog.String("error", err.Error()))
		w = Window{}
	}

	nowSec := unixSeconds(now)
	kept := make([]float64, 0, len(w.TS))
	for _, ts := range w.TS {
		if nowSec-ts < windowSpan.Seconds() {
			kept = append(kept, ts)
		}
	}
	w.TS = kept

	if w.Block != 0 && nowSec-w.Block < blockSpan.Seconds() {
		return w, false
	}
	if len(w.TS) >= windowCapacity {
		w.Block = nowSec
		t.save(ctx, key, w)
		return w, false
	}
	return w, true
}

// Record counts an attempt that reached the upstream call.
func (t *Throttle) Record(ctx context.Context, key string, w Window, at time.Time) {
	w.TS = append(w.TS, unixSeconds(at))
	t.save(ctx, key, w)
}

func (t *Throttle) save(ctx context.Context, key string, w Window) {
	if err := t.store.Set(ctx, key, w, windowTTL); err != nil {
		t.log.Warn("assist throttle: window write failed", slog.String("error", err.Error()))
	}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
