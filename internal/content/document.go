package content

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lawsite-backend/internal/utils"
)

// document is implemented by every stored content kind.
type document interface {
	docID() string
	docSlug() string
	visible() bool
}

func (p PracticeArea) docID() string   { return p.ID }
func (p PracticeArea) docSlug() string { return p.Slug }
func (p PracticeArea) visible() bool   { return true }

func (p BlogPost) docID() string   { return p.ID }
func (p BlogPost) docSlug() string { return p.Slug }
func (p BlogPost) visible() bool   { return p.Published }

func (c CaseStudy) docID() string   { return c.ID }
func (c CaseStudy) docSlug() string { return c.Slug }
func (c CaseStudy) visible() bool   { return c.Published }

func (p SitePage) docID() string   { return p.ID }
func (p SitePage) docSlug() string { return p.Slug }
func (p SitePage) visible() bool   { return true }

type stamp struct {
	id        string
	createdAt time.Time
}

func newStamp(id string, createdAt time.Time, now time.Time) stamp {
	if id == "" {
		return stamp{id: primitive.NewObjectID().Hex(), createdAt: now}
	}
	return stamp{id: id, createdAt: createdAt}
}

func buildPracticeArea(req PracticeAreaRequest, prev *PracticeArea, now time.Time) (PracticeArea, error) {
	slug := normalizeSlug(req.Slug, req.Name)
	if slug == "" {
		return PracticeArea{}, ErrInvalidSlug
	}
	st := newStamp("", time.Time{}, now)
	order := 0
	if prev != nil {
		st = newStamp(prev.ID, prev.CreatedAt, now)
		order = prev.Order
	}
	if req.Order != nil {
		order = *req.Order
	}
	return PracticeArea{
		ID:           st.id,
		Name:         strings.TrimSpace(req.Name),
		Slug:         slug,
		ShortSummary: strings.TrimSpace(req.ShortSummary),
		Body:         strings.TrimSpace(req.Body),
		Order:        order,
		CreatedAt:    st.createdAt,
		UpdatedAt:    now,
	}, nil
}

func buildBlogPost(req BlogPostRequest, prev *BlogPost, now time.Time) (BlogPost, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return BlogPost{}, ErrInvalidSlug
	}
	st := newStamp("", time.Time{}, now)
	var prevPublishedAt *time.Time
	if prev != nil {
		st = newStamp(prev.ID, prev.CreatedAt, now)
		prevPublishedAt = prev.PublishedAt
	}
	published := req.Published != nil && *req.Published
	return BlogPost{
		ID:          st.id,
		Title:       strings.TrimSpace(req.Title),
		Slug:        slug,
		Summary:     strings.TrimSpace(req.Summary),
		Body:        strings.TrimSpace(req.Body),
		Published:   published,
		PublishedAt: publishedAt(published, req.PublishedAt, prevPublishedAt, now),
		SourceName:  strings.TrimSpace(req.SourceName),
		SourceURL:   strings.TrimSpace(req.SourceURL),
		CreatedAt:   st.createdAt,
		UpdatedAt:   now,
	}, nil
}

func buildCaseStudy(req CaseStudyRequest, prev *CaseStudy, now time.Time) (CaseStudy, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return CaseStudy{}, ErrInvalidSlug
	}
	st := newStamp("", time.Time{}, now)
	var prevPublishedAt *time.Time
	if prev != nil {
		st = newStamp(prev.ID, prev.CreatedAt, now)
		prevPublishedAt = prev.PublishedAt
	}
	published := req.Published != nil && *req.Published
	areas := make([]string, 0, len(req.PracticeAreaSlugs))
	for _, s := range req.PracticeAreaSlugs {
		if s = strings.TrimSpace(s); s != "" {
			areas = append(areas, s)
		}
	}
	return CaseStudy{
		ID:                st.id,
		Title:             strings.TrimSpace(req.Title),
		Slug:              slug,
		Summary:           strings.TrimSpace(req.Summary),
		Body:              strings.TrimSpace(req.Body),
		Published:         published,
		PublishedAt:       publishedAt(published, req.PublishedAt, prevPublishedAt, now),
		Outcome:           strings.TrimSpace(req.Outcome),
		DateOfCase:        strings.TrimSpace(req.DateOfCase),
		CitationRef:       strings.TrimSpace(req.CitationRef),
		CitationName:      strings.TrimSpace(req.CitationName),
		CitationURL:       strings.TrimSpace(req.CitationURL),
		PracticeAreaSlugs: areas,
		CreatedAt:         st.createdAt,
		UpdatedAt:         now,
	}, nil
}

func buildSitePage(req SitePageRequest, prev *SitePage, now time.Time) (SitePage, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return SitePage{}, ErrInvalidSlug
	}
	st := newStamp("", time.Time{}, now)
	if prev != nil {
		st = newStamp(prev.ID, prev.CreatedAt, now)
	}
	return SitePage{
		ID:        st.id,
		Slug:      slug,
		Title:     strings.TrimSpace(req.Title),
		Body:      strings.TrimSpace(req.Body),
		CreatedAt: st.createdAt,
		UpdatedAt: now,
	}, nil
}

// publishedAt keeps the first publication time unless the caller sets one.
func publishedAt(published bool, requested, previous *time.Time, now time.Time) *time.Time {
	if requested != nil {
		t := requested.In(now.Location())
		return &t
	}
	if previous != nil {
		return previous
	}
	if published {
		t := now
		return &t
	}
	return nil
}

func normalizeSlug(slug, title string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = strings.TrimSpace(title)
	}
	return utils.Slugify(raw)
}
