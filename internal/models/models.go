// Package models defines the documents stored by the CMS together with their
// write-time lifecycle hooks.
package models

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Status is the publication state of a content document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// SEO is the search-engine block embedded in pages, posts and case studies.
type SEO struct {
	MetaTitle       string   `json:"metaTitle,omitempty" validate:"max=60"`
	MetaDescription string   `json:"metaDescription,omitempty" validate:"max=160"`
	Keywords        []string `json:"keywords,omitempty" validate:"max=20,dive,max=50"`
}

// UserRef is a populated reference to a user.
type UserRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

const wordsPerMinute = 200

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Slugify turns a title or name into a lowercase, hyphenated, URL-safe slug.
func Slugify(s string) string {
	return slug.Make(s)
}

// ReadTime estimates reading time in whole minutes, never less than one.
func ReadTime(content string) int {
	words := len(strings.Fields(tagPattern.ReplaceAllString(content, " ")))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// deriveSlug keeps the current slug unless the document is new, has no slug
// yet, or its source field changed.
func deriveSlug(current, source string, prevSource *string) string {
	if prevSource == nil || current == "" || *prevSource != source {
		return Slugify(source)
	}
	return current
}

// stampPublished sets the publish time the first time a document is saved
// as published and leaves it alone afterwards.
func stampPublished(status Status, publishedAt *time.Time, now time.Time) *time.Time {
	if status == StatusPublished && publishedAt == nil {
		t := now
		return &t
	}
	return publishedAt
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
