package models

import (
	"fmt"
	"regexp"
	"time"
)

// Content kinds served by the read endpoints
type ContentKind string

const (
	KindNews ContentKind = "news"
	KindCase ContentKind = "cases"
)

// StatusPublished is the only status visible to the public site
const StatusPublished = "published"

// ExcerptLength is the number of characters kept in a news excerpt
const ExcerptLength = 180

// Article is a full news article
type Article struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Category       *string    `json:"category"`
	ImageURL       *string    `json:"image_url"`
	SEOTitle       *string    `json:"seo_title,omitempty"`
	SEODescription *string    `json:"seo_description,omitempty"`
	Status         string     `json:"status"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewsSummary is the list projection of an article
type NewsSummary struct {
	ID       string    `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Excerpt  string    `json:"excerpt"`
	Category *string   `json:"category"`
	ImageURL *string   `json:"image_url"`
	Date     time.Time `json:"date"`
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Summary projects the article for list pages
func (a *Article) Summary() NewsSummary {
	return NewsSummary{
		ID:       a.ID,
		Slug:     a.Slug,
		Title:    a.Title,
		Excerpt:  Excerpt(a.Content, ExcerptLength),
		Category: a.Category,
		ImageURL: a.ImageURL,
		Date:     a.CreatedAt,
	}
}

// Excerpt strips HTML tags and keeps at most n characters
func Excerpt(content string, n int) string {
	plain := []rune(htmlTag.ReplaceAllString(content, ""))
	if len(plain) > n {
		plain = plain[:n]
	}
	return string(plain)
}

// CaseStudy is a full case study record
type CaseStudy struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ClientName   *string   `json:"client_name"`
	CountryID    *string   `json:"country_id"`
	CargoType    *string   `json:"cargo_type"`
	DeliveryTime *int      `json:"delivery_time"`
	Images       []string  `json:"images"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CaseSummary is the list projection of a case study
type CaseSummary struct {
	ID        string  `json:"id"`
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	Client    string  `json:"client"`
	Direction string  `json:"direction"`
	Industry  string  `json:"industry"`
	Time      *string `json:"time"`
}

// Fallbacks for case studies with unfilled attributes
const (
	UnknownClient    = "Не указан"
	DefaultDirection = "Международная доставка"
	DefaultIndustry  = "Логистика"
)

// Summary projects the case study for list pages
func (c *CaseStudy) Summary() CaseSummary {
	s := CaseSummary{
		ID:        c.ID,
		Slug:      c.Slug,
		Title:     c.Title,
		Client:    valueOr(c.ClientName, UnknownClient),
		Direction: valueOr(c.CountryID, DefaultDirection),
		Industry:  valueOr(c.CargoType, DefaultIndustry),
	}
	if c.DeliveryTime != nil && *c.DeliveryTime > 0 {
		t := fmt.Sprintf("%d дней", *c.DeliveryTime)
		s.Time = &t
	}
	return s
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

// ListOptions bounds a list query
type ListOptions struct {
	Limit int
}
