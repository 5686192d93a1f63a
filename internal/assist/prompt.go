package assist

import (
	"context"
	"strings"

	"lawsite-backend/internal/content"
)

const systemPrompt = `You are a website assistant for a barrister's practice in Ireland.

RULES:
- Provide general, high-level information only. Do NOT give legal advice.
- If the user asks for case-specific guidance, politely decline and suggest booking a consultation.
- Jurisdiction: Ireland (unless user explicitly states otherwise).
- Do not collect sensitive personal data. If user shares it, warn and redirect to the contact form or booking.
- Tone: professional, warm, concise, plain English. Keep answers short (2-5 sentences) with clear calls to action when helpful.
- If unsure, say so and suggest booking.

INTERNAL LINKS:
- You may include internal links using HTML anchor tags: <a href="/path/">link text</a>
- ONLY link to URLs listed in the SITE MAP below, or to top-level pages: /about/, /contact/, /book/, /practice-areas/, /blog/, /cases/
- Do NOT invent or guess URLs. If unsure whether a specific page exists, link to the nearest parent page.
- Example: "To book a consultation, visit the <a href='/book/'>booking page</a>."
`

const (
	sitemapPracticeAreas = 8
	sitemapBlogPosts     = 6
	sitemapCaseStudies   = 4
)

type SitemapSource interface {
	PracticeAreaLinks(ctx context.Context, limit int) ([]content.Link, error)
	BlogPostLinks(ctx context.Context, limit int) ([]content.Link, error)
	CaseStudyLinks(ctx context.Context, limit int) ([]content.Link, error)
}

var staticPages = []content.Link{
	{Title: "About", URL: "/about/"},
	{Title: "Contact", URL: "/contact/"},
	{Title: "Book Consultation", URL: "/book/"},
	{Title: "Practice Areas Index", URL: "/practice-areas/"},
	{Title: "Blog Index", URL: "/blog/"},
	{Title: "Case Studies Index", URL: "/cases/"},
	{Title: "Privacy Policy", URL: "/privacy/"},
	{Title: "Terms of Use", URL: "/terms/"},
}

// BuildSitemap lists the static routes and the current content. A section is
// left out when it is empty or its lookup fails.
func BuildSitemap(ctx context.Context, src SitemapSource) string {
	var b strings.Builder
	writeSection(&b, "SITE MAP - Static Pages:", staticPages)

	if src == nil {
		return strings.TrimRight(b.String(), "\n")
	}
	if links, err := src.PracticeAreaLinks(ctx, sitemapPracticeAreas); err == nil {
		writeSection(&b, "Practice Areas (detailed pages):", links)
	}
	if links, err := src.BlogPostLinks(ctx, sitemapBlogPosts); err == nil {
		writeSection(&b, "Recent Blog Posts:", links)
	}
	if links, err := src.CaseStudyLinks(ctx, sitemapCaseStudies); err == nil {
		writeSection(&b, "Recent Case Studies:", links)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, heading string, links []content.Link) {
	if len(links) == 0 {
		return
	}
	b.WriteString(heading)
	b.WriteByte('\n')
	for _, l := range links {
		b.WriteString("- ")
		b.WriteString(l.Title)
		b.WriteString(": ")
		b.WriteString(l.URL)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

func systemMessage(sitemap string) string {
	return systemPrompt + "\n\n" + sitemap
}
