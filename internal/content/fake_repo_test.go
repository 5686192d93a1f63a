package content

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

var errDuplicate = mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}}}

type fakeRepo[T document] struct {
	mu     sync.Mutex
	items  []T
	less   func(a, b T) bool
	err    error
	counts int
}

func newFakeRepo[T document](less func(a, b T) bool) *fakeRepo[T] {
	return &fakeRepo[T]{less: less}
}

func (f *fakeRepo[T]) Create(ctx context.Context, item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, it := range f.items {
		if it.docSlug() == item.docSlug() {
			return errDuplicate
		}
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeRepo[T]) Get(ctx context.Context, id string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.docID() == id {
			return it, nil
		}
	}
	var zero T
	return zero, mongo.ErrNoDocuments
}

func (f *fakeRepo[T]) GetBySlug(ctx context.Context, slug string, publicOnly bool) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.docSlug() == slug && (!publicOnly || it.visible()) {
			return it, nil
		}
	}
	var zero T
	return zero, mongo.ErrNoDocuments
}

func (f *fakeRepo[T]) Replace(ctx context.Context, id string, item T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	idx := -1
	for i, it := range f.items {
		if it.docID() == id {
			idx = i
		} else if it.docSlug() == item.docSlug() {
			return zero, errDuplicate
		}
	}
	if idx < 0 {
		return zero, mongo.ErrNoDocuments
	}
	f.items[idx] = item
	return item, nil
}

func (f *fakeRepo[T]) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.docID() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo[T]) List(ctx context.Context, q ListQuery) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := f.filter(q.PublicOnly)
	sort.SliceStable(out, func(i, j int) bool { return f.less(out[i], out[j]) })
	if q.Offset > int64(len(out)) {
		return []T{}, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeRepo[T]) Count(ctx context.Context, q ListQuery) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts++
	return int64(len(f.filter(q.PublicOnly))), nil
}

func (f *fakeRepo[T]) filter(publicOnly bool) []T {
	out := make([]T, 0, len(f.items))
	for _, it := range f.items {
		if !publicOnly || it.visible() {
			out = append(out, it)
		}
	}
	return out
}

func areaLess(a, b PracticeArea) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	return a.Name < b.Name
}

func publishedUnix(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

func postLess(a, b BlogPost) bool {
	return publishedUnix(a.PublishedAt) > publishedUnix(b.PublishedAt)
}

func caseLess(a, b CaseStudy) bool {
	return publishedUnix(a.PublishedAt) > publishedUnix(b.PublishedAt)
}

func pageLess(a, b SitePage) bool { return a.Slug < b.Slug }

var errBoom = errors.New("boom")
