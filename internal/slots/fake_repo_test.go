package slots

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]Slot
	reads int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]Slot{}}
}

func (f *fakeRepo) Create(ctx context.Context, slot Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[slot.ID] = slot
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.items[id]
	if !ok {
		return Slot{}, mongo.ErrNoDocuments
	}
	return slot, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.items[id]
	if !ok {
		return Slot{}, mongo.ErrNoDocuments
	}
	for k, v := range set {
		switch k {
		case "date":
			slot.Date = v.(string)
		case "start_time":
			slot.StartTime = v.(string)
		case "end_time":
			slot.EndTime = v.(string)
		case "slot_type":
			slot.SlotType = v.(string)
		case "notes":
			slot.Notes = v.(string)
		case "is_available":
			slot.IsAvailable = v.(bool)
		case "updated_at":
			slot.UpdatedAt = v.(time.Time)
		}
	}
	f.items[id] = slot
	return slot, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) ListOpen(ctx context.Context) ([]Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := make([]Slot, 0)
	for _, s := range f.items {
		if s.IsAvailable {
			out = append(out, s)
		}
	}
	sortChronological(out)
	return out, nil
}

func (f *fakeRepo) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Slot, 0)
	for _, s := range f.items {
		if filter.OnlyAvailable && !s.IsAvailable {
			continue
		}
		if filter.From != "" && s.Date < filter.From {
			continue
		}
		if filter.To != "" && s.Date > filter.To {
			continue
		}
		out = append(out, s)
	}
	sortChronological(out)
	if offset >= int64(len(out)) {
		return []Slot{}, nil
	}
	end := offset + limit
	if end > int64(len(out)) {
		end = int64(len(out))
	}
	return out[offset:end], nil
}

func (f *fakeRepo) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	items, _ := f.ListAdmin(ctx, filter, 1<<30, 0)
	return int64(len(items)), nil
}

func sortChronological(items []Slot) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].StartTime < items[j].StartTime
	})
}

type fakePurger struct {
	calls []string
	count int64
	err   error
}

func (p *fakePurger) DeleteBySlot(ctx context.Context, slotID string) (int64, error) {
	p.calls = append(p.calls, slotID)
	if p.err != nil {
		return 0, p.err
	}
	return p.count, nil
}
