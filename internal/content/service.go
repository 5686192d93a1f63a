package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("content not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

// Collection manages one content kind. R is the staff upsert payload.
type Collection[T document, R any] struct {
	repo     Repository[T]
	build    func(req R, prev *T, now time.Time) (T, error)
	location *time.Location
	now      func() time.Time
}

func newCollection[T document, R any](repo Repository[T], build func(R, *T, time.Time) (T, error), location *time.Location) *Collection[T, R] {
	return &Collection[T, R]{repo: repo, build: build, location: location, now: time.Now}
}

func (c *Collection[T, R]) Create(ctx context.Context, req R) (T, error) {
	var zero T
	item, err := c.build(req, nil, c.now().In(c.location))
	if err != nil {
		return zero, err
	}
	if err := c.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return zero, ErrSlugExists
		}
		return zero, err
	}
	return item, nil
}

func (c *Collection[T, R]) Update(ctx context.Context, id string, req R) (T, error) {
	var zero T
	id = strings.TrimSpace(id)
	prev, err := c.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	item, err := c.build(req, &prev, c.now().In(c.location))
	if err != nil {
		return zero, err
	}

	updated, err := c.repo.Replace(ctx, id, item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return zero, ErrSlugExists
		}
		return zero, err
	}
	return updated, nil
}

func (c *Collection[T, R]) Delete(ctx context.Context, id string) error {
	deleted, err := c.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (c *Collection[T, R]) Get(ctx context.Context, id string) (T, error) {
	return notFound(c.repo.Get(ctx, strings.TrimSpace(id)))
}

// GetPublic only returns published documents for kinds that have a draft state.
func (c *Collection[T, R]) GetPublic(ctx context.Context, slug string) (T, error) {
	return notFound(c.repo.GetBySlug(ctx, strings.TrimSpace(slug), true))
}

func (c *Collection[T, R]) ListPublic(ctx context.Context, limit, offset int64) ([]T, int64, error) {
	return c.list(ctx, ListQuery{PublicOnly: true, Limit: limit, Offset: offset})
}

// Latest returns the first limit public items in listing order without
// counting the collection.
func (c *Collection[T, R]) Latest(ctx context.Context, limit int64) ([]T, error) {
	return c.repo.List(ctx, ListQuery{PublicOnly: true, Limit: limit})
}

func (c *Collection[T, R]) ListAdmin(ctx context.Context, limit, offset int64) ([]T, int64, error) {
	return c.list(ctx, ListQuery{Limit: limit, Offset: offset})
}

func (c *Collection[T, R]) list(ctx context.Context, q ListQuery) ([]T, int64, error) {
	items, err := c.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	total, err := c.repo.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func notFound[T any](item T, err error) (T, error) {
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return item, nil
}

type Service struct {
	Areas *Collection[PracticeArea, PracticeAreaRequest]
	Posts *Collection[BlogPost, BlogPostRequest]
	Cases *Collection[CaseStudy, CaseStudyRequest]
	Pages *Collection[SitePage, SitePageRequest]
}

func NewService(areas Repository[PracticeArea], posts Repository[BlogPost], cases Repository[CaseStudy], pages Repository[SitePage], location *time.Location) *Service {
	return &Service{
		Areas: newCollection(areas, buildPracticeArea, location),
		Posts: newCollection(posts, buildBlogPost, location),
		Cases: newCollection(cases, buildCaseStudy, location),
		Pages: newCollection(pages, buildSitePage, location),
	}
}

// PracticeAreaLinks lists practice areas by display order.
func (s *Service) PracticeAreaLinks(ctx context.Context, limit int) ([]Link, error) {
	items, err := s.Areas.Latest(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(items))
	for _, it := range items {
		links = append(links, Link{Title: it.Name, URL: it.URL()})
	}
	return links, nil
}

// BlogPostLinks lists the newest published posts.
func (s *Service) BlogPostLinks(ctx context.Context, limit int) ([]Link, error) {
	items, err := s.Posts.Latest(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(items))
	for _, it := range items {
		links = append(links, Link{Title: it.Title, URL: it.URL()})
	}
	return links, nil
}

// CaseStudyLinks lists the newest published case studies.
func (s *Service) CaseStudyLinks(ctx context.Context, limit int) ([]Link, error) {
	items, err := s.Cases.Latest(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(items))
	for _, it := range items {
		links = append(links, Link{Title: it.Title, URL: it.URL()})
	}
	return links, nil
}
