package content

import "time"

type PracticeArea struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Slug         string    `bson:"slug" json:"slug"`
	ShortSummary string    `bson:"short_summary" json:"short_summary"`
	Body         string    `bson:"body" json:"body"`
	Order        int       `bson:"order" json:"order"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

func (p PracticeArea) URL() string { return "/practice-areas/" + p.Slug + "/" }

type BlogPost struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Slug        string     `bson:"slug" json:"slug"`
	Summary     string     `bson:"summary" json:"summary"`
	Body        string     `bson:"body" json:"body"`
	Published   bool       `bson:"published" json:"published"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	SourceName  string     `bson:"source_name,omitempty" json:"source_name,omitempty"`
	SourceURL   string     `bson:"source_url,omitempty" json:"source_url,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

func (p BlogPost) URL() string { return "/blog/" + p.Slug + "/" }

type CaseStudy struct {
	ID                string     `bson:"_id,omitempty" json:"id"`
	Title             string     `bson:"title" json:"title"`
	Slug              string     `bson:"slug" json:"slug"`
	Summary           string     `bson:"summary" json:"summary"`
	Body              string     `bson:"body" json:"body"`
	Published         bool       `bson:"published" json:"published"`
	PublishedAt       *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	Outcome           string     `bson:"outcome,omitempty" json:"outcome,omitempty"`
	DateOfCase        string     `bson:"date_of_case,omitempty" json:"date_of_case,omitempty"`
	CitationRef       string     `bson:"citation_ref,omitempty" json:"citation_ref,omitempty"`
	CitationName      string     `bson:"citation_name,omitempty" json:"citation_name,omitempty"`
	CitationURL       string     `bson:"citation_url,omitempty" json:"citation_url,omitempty"`
	PracticeAreaSlugs []string   `bson:"practice_area_slugs" json:"practice_area_slugs"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updated_at"`
}

func (c CaseStudy) URL() string { return "/cases/" + c.Slug + "/" }

type SitePage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Slug      string    `bson:"slug" json:"slug"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type PracticeAreaRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Slug         string `json:"slug" validate:"omitempty,max=200"`
	ShortSummary string `json:"short_summary" validate:"max=500"`
	Body         string `json:"body" validate:"max=50000"`
	Order        *int   `json:"order" validate:"omitempty,gte=0"`
}

type BlogPostRequest struct {
	Title       string     `json:"title" validate:"required,max=300"`
	Slug        string     `json:"slug" validate:"omitempty,max=200"`
	Summary     string     `json:"summary" validate:"max=1000"`
	Body        string     `json:"body" validate:"required,max=100000"`
	Published   *bool      `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	SourceName  string     `json:"source_name" validate:"max=200"`
	SourceURL   string     `json:"source_url" validate:"omitempty,url"`
}

type CaseStudyRequest struct {
	Title             string     `json:"title" validate:"required,max=300"`
	Slug              string     `json:"slug" validate:"omitempty,max=200"`
	Summary           string     `json:"summary" validate:"max=1000"`
	Body              string     `json:"body" validate:"required,max=100000"`
	Published         *bool      `json:"published"`
	PublishedAt       *time.Time `json:"published_at"`
	Outcome           string     `json:"outcome" validate:"max=500"`
	DateOfCase        string     `json:"date_of_case" validate:"omitempty,date"`
	CitationRef       string     `json:"citation_ref" validate:"max=200"`
	CitationName      string     `json:"citation_name" validate:"max=300"`
	CitationURL       string     `json:"citation_url" validate:"omitempty,url"`
	PracticeAreaSlugs []string   `json:"practice_area_slugs" validate:"omitempty,dive,slug"`
}

type SitePageRequest struct {
	Slug  string `json:"slug" validate:"omitempty,max=200"`
	Title string `json:"title" validate:"required,max=300"`
	Body  string `json:"body" validate:"max=100000"`
}

// Link is a titled site-relative URL.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
