package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"lawsite-backend/internal/config"
	"lawsite-backend/internal/content"
	"lawsite-backend/internal/db"
	"lawsite-backend/internal/sitesettings"
	"lawsite-backend/internal/staff"
)

type seedUser struct {
	Username    string
	Email       string
	PasswordEnv string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	contentService := content.NewService(
		content.NewPracticeAreaRepository(cols.PracticeAreas),
		content.NewBlogPostRepository(cols.BlogPosts),
		content.NewCaseStudyRepository(cols.CaseStudies),
		content.NewSitePageRepository(cols.SitePages),
		cfg.Timezone,
	)

	areas := []content.PracticeAreaRequest{
		{Name: "Employment Law", ShortSummary: "Advice for employees and employers on contracts, dismissals and disputes."},
		{Name: "Family Law", ShortSummary: "Separation, divorce, custody and maintenance matters."},
		{Name: "Property & Conveyancing", ShortSummary: "Residential and commercial purchases, sales and leases."},
		{Name: "Wills & Probate", ShortSummary: "Drafting wills and administering estates."},
		{Name: "Personal Injury", ShortSummary: "Claims arising from road, workplace and public liability accidents."},
		{Name: "Commercial Law", ShortSummary: "Company formation, shareholder agreements and commercial contracts."},
	}
	for i, req := range areas {
		order := i
		req.Order = &order
		if _, err := contentService.Areas.Create(ctx, req); err != nil {
			if errors.Is(err, content.ErrSlugExists) {
				continue
			}
			log.Fatalf("seed practice area error for %s: %v", req.Name, err)
		}
	}

	pages := []content.SitePageRequest{
		{Slug: "about", Title: "About us", Body: "We are an independent practice serving private clients and businesses."},
		{Slug: "privacy", Title: "Privacy notice", Body: "How we collect, use and store personal data."},
		{Slug: "terms", Title: "Terms of business", Body: "The terms on which we provide legal services."},
	}
	for _, req := range pages {
		if _, err := contentService.Pages.Create(ctx, req); err != nil {
			if errors.Is(err, content.ErrSlugExists) {
				continue
			}
			log.Fatalf("seed page error for %s: %v", req.Slug, err)
		}
	}

	settingsService := sitesettings.NewService(sitesettings.NewRepository(cols.Settings), cfg.Timezone)
	if _, err := settingsService.EnsureSeeded(ctx); err != nil {
		log.Fatalf("seed homepage settings error: %v", err)
	}

	staffService := staff.NewService(staff.NewRepository(cols.Users), cfg.Timezone)
	staffUsers := []seedUser{
		{
			Username:    envOrDefault("ADMIN_USER", "admin"),
			Email:       envOrDefault("ADMIN_EMAIL", ""),
			PasswordEnv: "ADMIN_PASSWORD",
		},
		{
			Username:    envOrDefault("ADMIN_USER_2", "admin2"),
			Email:       envOrDefault("ADMIN_EMAIL_2", ""),
			PasswordEnv: "ADMIN_PASSWORD_2",
		},
	}
	for _, u := range staffUsers {
		password := os.Getenv(u.PasswordEnv)
		if password == "" {
			log.Printf("seed staff: %s missing, skipping (%s)", u.Username, u.PasswordEnv)
			continue
		}
		if _, err := staffService.EnsureUser(ctx, u.Username, u.Email, password); err != nil {
			log.Fatalf("seed staff error for %s: %v", u.Username, err)
		}
	}

	log.Println("seed completed")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
