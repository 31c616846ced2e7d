package models

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	MediaImage    = "image"
	MediaVideo    = "video"
	MediaAudio    = "audio"
	MediaDocument = "document"
	MediaOther    = "other"
)

var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/vnd.ms-excel":                                                  true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain": true,
	"text/csv":   true,
}

var allowedMedia = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
	"audio/mpeg":      true,
	"audio/wav":       true,
	"audio/ogg":       true,
	"application/zip": true,
}

// MediaCategory classifies a declared MIME type into a coarse category.
func MediaCategory(mimeType string) string {
	mimeType = baseMIME(mimeType)
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaImage
	case strings.HasPrefix(mimeType, "video/"):
		return MediaVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return MediaAudio
	case documentTypes[mimeType]:
		return MediaDocument
	default:
		return MediaOther
	}
}

// MediaAllowed reports whether uploads of mimeType are accepted.
func MediaAllowed(mimeType string) bool {
	mimeType = baseMIME(mimeType)
	return allowedMedia[mimeType] || documentTypes[mimeType]
}

func baseMIME(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// MediaKey is the storage path of a file: the category directory followed by
// the generated file name.
func MediaKey(category, filename string) string {
	return category + "/" + filename
}

// MediaFilename combines a generated id with the lowercased extension of the
// original name.
func MediaFilename(id, originalName string) string {
	return id + strings.ToLower(filepath.Ext(originalName))
}

type Media struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Category     string    `json:"category"`
	Path         string    `json:"path"`
	URL          string    `json:"url"`
	Alt          string    `json:"alt"`
	Caption      string    `json:"caption"`
	Tags         []string  `json:"tags"`
	UploadedByID string    `json:"-"`
	UploadedBy   *UserRef  `json:"uploadedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type MediaUpdate struct {
	Alt     string   `json:"alt" validate:"max=200"`
	Caption string   `json:"caption" validate:"max=500"`
	Tags    []string `json:"tags" validate:"max=20,dive,min=1,max=30"`
}

func (m *Media) Update() MediaUpdate {
	return MediaUpdate{Alt: m.Alt, Caption: m.Caption, Tags: cloneStrings(m.Tags)}
}

func (in MediaUpdate) Apply(m *Media, now time.Time) {
	m.Alt = in.Alt
	m.Caption = in.Caption
	m.Tags = cloneStrings(in.Tags)
	m.UpdatedAt = now
}
