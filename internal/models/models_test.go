package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugifyIsDeterministic(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello World"))
	assert.Equal(t, Slugify("Our  Design Process"), Slugify("Our  Design Process"))
	assert.Equal(t, "our-design-process", Slugify("Our Design Process"))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime("<p>short post</p>"))

	words := make([]byte, 0, 401*2)
	for i := 0; i < 401; i++ {
		words = append(words, 'w', ' ')
	}
	assert.Equal(t, 3, ReadTime(string(words)))
}

func TestPostBeforeSaveCreate(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &Post{Title: "Launching Our New Site", Content: "words here", Status: StatusDraft}
	p.BeforeSave(nil, now)

	assert.Equal(t, "launching-our-new-site", p.Slug)
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
	assert.Equal(t, 1, p.ReadTime)
}

func TestPostSlugFollowsTitle(t *testing.T) {
	now := time.Now()
	stored := Post{Title: "First Title", Slug: "first-title", CreatedAt: now}

	unchanged := stored
	unchanged.Content = "edited body"
	unchanged.BeforeSave(&stored, now)
	assert.Equal(t, "first-title", unchanged.Slug)

	renamed := stored
	renamed.Title = "Second Title"
	renamed.BeforeSave(&stored, now)
	assert.Equal(t, "second-title", renamed.Slug)

	custom := stored
	custom.Slug = "hand-picked"
	custom.BeforeSave(&stored, now)
	assert.Equal(t, "hand-picked", custom.Slug, "slug is only rewritten when the title changes")
}

func TestPublishedAtStampedOnce(t *testing.T) {
	first := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	p := &Post{Title: "Release notes", Status: StatusDraft}
	p.BeforeSave(nil, first)
	require.Nil(t, p.PublishedAt)

	prev := *p
	p.Status = StatusPublished
	p.BeforeSave(&prev, first)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, first, *p.PublishedAt)

	prev = *p
	p.Excerpt = "resaved"
	p.BeforeSave(&prev, later)
	assert.Equal(t, first, *p.PublishedAt)

	prev = *p
	p.Status = StatusArchived
	p.BeforeSave(&prev, later)
	prev = *p
	p.Status = StatusPublished
	p.BeforeSave(&prev, later)
	assert.Equal(t, first, *p.PublishedAt)
}

func TestInputRoundTripKeepsServerFields(t *testing.T) {
	published := time.Now().Add(-time.Hour)
	p := Post{
		ID:          "id-1",
		Title:       "A title",
		Slug:        "a-title",
		Content:     "body",
		Category:    "design",
		Status:      StatusPublished,
		Views:       42,
		PublishedAt: &published,
		AuthorID:    "author-1",
	}
	in := p.Input()
	in.Excerpt = "new excerpt"
	in.Apply(&p)

	assert.Equal(t, "new excerpt", p.Excerpt)
	assert.Equal(t, 42, p.Views)
	assert.Equal(t, "author-1", p.AuthorID)
	assert.Equal(t, &published, p.PublishedAt)
}

func TestTeamMemberSlugAndVisibility(t *testing.T) {
	m := &TeamMember{Name: "Ada Lovelace", IsActive: true, IsPublic: true}
	m.BeforeSave(nil, time.Now())
	assert.Equal(t, "ada-lovelace", m.Slug)
	assert.True(t, m.Visible())

	m.IsActive = false
	assert.False(t, m.Visible())
}

func TestNewContactDefaults(t *testing.T) {
	now := time.Now()
	in := ContactInput{
		Name:    "  Jane Doe ",
		Email:   " Jane@Example.COM ",
		Message: "I would like a quote for a new website.",
	}
	in.Normalize()
	c := NewContact(in, "10.0.0.1", "test-agent", now)

	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.Equal(t, ContactNew, c.Status)
	assert.Equal(t, PriorityMedium, c.Priority)
	assert.Equal(t, "website", c.Source)
	assert.Empty(t, c.Notes)
}

func TestContactUpdateApply(t *testing.T) {
	now := time.Now()
	c := NewContact(ContactInput{Name: "Jo", Email: "jo@example.com", Message: "hello there friend"}, "", "", now)
	author := &UserRef{ID: "u1", Name: "Admin"}

	empty := ""
	upd := c.Update()
	upd.Status = ContactResolved
	upd.Priority = "high"
	upd.AssignedTo = &empty
	upd.Note = "  called back  "
	upd.Apply(&c, author, now)

	assert.Equal(t, ContactResolved, c.Status)
	assert.Equal(t, "high", c.Priority)
	assert.Nil(t, c.AssignedToID)
	require.Len(t, c.Notes, 1)
	assert.Equal(t, "called back", c.Notes[0].Content)
	require.NotNil(t, c.RespondedAt)

	first := *c.RespondedAt
	upd = c.Update()
	upd.Apply(&c, author, now.Add(time.Hour))
	assert.Equal(t, first, *c.RespondedAt)
	assert.Len(t, c.Notes, 1)
}

func TestMediaCategory(t *testing.T) {
	cases := map[string]string{
		"image/png":                 "image",
		"IMAGE/JPEG":                "image",
		"video/mp4":                 "video",
		"audio/mpeg":                "audio",
		"application/pdf":           "document",
		"text/plain; charset=utf-8": "document",
		"application/zip":           "other",
		"application/octet-stream":  "other",
	}
	for mime, want := range cases {
		assert.Equal(t, want, MediaCategory(mime), mime)
	}
}

func TestMediaAllowedAndNaming(t *testing.T) {
	assert.True(t, MediaAllowed("image/webp"))
	assert.True(t, MediaAllowed("application/pdf"))
	assert.False(t, MediaAllowed("application/x-msdownload"))

	assert.Equal(t, "abc.jpg", MediaFilename("abc", "Holiday Photo.JPG"))
	assert.Equal(t, "abc", MediaFilename("abc", "README"))
	assert.Equal(t, "image/abc.jpg", MediaKey(MediaImage, "abc.jpg"))
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleEditor.In(RoleAdmin, RoleEditor))
	assert.False(t, RoleViewer.In(RoleAdmin, RoleEditor))
	assert.False(t, RoleAuthor.In())
}
