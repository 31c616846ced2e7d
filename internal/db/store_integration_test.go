//go:build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("cms_test"),
		postgres.WithUsername("cms"),
		postgres.WithPassword("cms_test_password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Migrate(ctx))
	// migrations are idempotent
	require.NoError(t, store.Migrate(ctx))
	return store
}

func createAuthor(t *testing.T, s *Store) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), models.User{
		Name:         "Editor",
		Email:        "Editor@Example.com",
		PasswordHash: "hash",
		Role:         models.RoleEditor,
		IsActive:     true,
	})
	require.NoError(t, err)
	return user
}

func TestStoreIntegration(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	author := createAuthor(t, s)

	t.Run("users", func(t *testing.T) {
		found, err := s.GetUserByEmail(ctx, "editor@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, author.ID, found.ID)

		_, err = s.CreateUser(ctx, models.User{Name: "Dup", Email: "EDITOR@example.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrDuplicate)

		missing, err := s.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("posts", func(t *testing.T) {
		for i, status := range []models.Status{models.StatusPublished, models.StatusDraft, models.StatusPublished} {
			in := models.NewPostInput()
			in.Title = []string{"Go Tips", "Draft Notes", "Rust Tricks"}[i]
			in.Content = "some body text for the post"
			in.Status = status
			in.Tags = []string{"Go"}
			var post models.Post
			in.Apply(&post)
			post.AuthorID = author.ID
			post.BeforeSave(nil, now)
			_, err := s.CreatePost(ctx, post)
			require.NoError(t, err)
		}

		public := PostFilter{Params: query.Params{Page: 1, Limit: 10}, PublicOnly: true, Status: "draft"}
		posts, total, err := s.ListPosts(ctx, public)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, posts, 2)
		require.NotNil(t, posts[0].Author)
		assert.Equal(t, "Editor", posts[0].Author.Name)

		st, err := s.PostStats(ctx, public)
		require.NoError(t, err)
		assert.Equal(t, 2, st["byStatus"]["published"])
		assert.Zero(t, st["byStatus"]["draft"])

		tagged, total, err := s.ListPosts(ctx, PostFilter{Params: query.Params{Page: 1, Limit: 10}, Tag: "go", Search: "rust"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "rust-tricks", tagged[0].Slug)

		exists, err := s.PostTitleExists(ctx, "go tips", "")
		require.NoError(t, err)
		assert.True(t, exists)

		likes, ok, err := s.LikePost(ctx, tagged[0].ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, likes)

		require.NoError(t, s.IncrementPostViews(ctx, tagged[0].ID))
		got, err := s.GetPostBySlug(ctx, "rust-tricks")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Views)
	})

	t.Run("home page singleton", func(t *testing.T) {
		mk := func(title string, home bool) *models.Page {
			in := models.NewPageInput()
			in.Title = title
			in.Status = models.StatusPublished
			in.IsHomePage = home
			var page models.Page
			in.Apply(&page)
			page.BeforeSave(nil, now)
			created, err := s.CreatePage(ctx, page)
			require.NoError(t, err)
			return created
		}
		first := mk("Welcome", true)
		assert.True(t, first.IsHomePage)

		second := mk("Landing", true)
		assert.True(t, second.IsHomePage)

		reloaded, err := s.GetPageByID(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, reloaded.IsHomePage)

		home, err := s.GetHomePage(ctx)
		require.NoError(t, err)
		require.NotNil(t, home)
		assert.Equal(t, second.ID, home.ID)

		settings, err := s.GetSiteSettings(ctx)
		require.NoError(t, err)
		require.NotNil(t, settings.HomePageID)
		assert.Equal(t, second.ID, *settings.HomePageID)

		second.IsHomePage = false
		_, err = s.UpdatePage(ctx, *second)
		require.NoError(t, err)
		home, err = s.GetHomePage(ctx)
		require.NoError(t, err)
		assert.Nil(t, home)

		settings, err = s.GetSiteSettings(ctx)
		require.NoError(t, err)
		assert.Nil(t, settings.HomePageID)
	})

	t.Run("contacts", func(t *testing.T) {
		in := models.ContactInput{Name: "Jo", Email: "jo@example.com", Message: "hello there, I need a site"}
		c, err := s.CreateContact(ctx, models.NewContact(in, "127.0.0.1", "test", now))
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)

		loaded, err := s.GetContactByID(ctx, c.ID)
		require.NoError(t, err)
		upd := loaded.Update()
		upd.Status = models.ContactResolved
		upd.AssignedTo = &author.ID
		upd.Note = "called back"
		upd.Apply(loaded, author.Ref(), now)

		saved, err := s.UpdateContact(ctx, *loaded)
		require.NoError(t, err)
		require.NotNil(t, saved.AssignedTo)
		assert.Equal(t, author.ID, saved.AssignedTo.ID)
		require.Len(t, saved.Notes, 1)
		assert.Equal(t, "called back", saved.Notes[0].Content)
		assert.NotNil(t, saved.RespondedAt)

		st, err := s.ContactStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, st["byStatus"]["resolved"])
	})

	t.Run("team visibility", func(t *testing.T) {
		for _, hidden := range []bool{false, true} {
			in := models.NewTeamMemberInput()
			in.Name = map[bool]string{false: "Ana Visible", true: "Bo Hidden"}[hidden]
			in.Position = "Engineer"
			in.IsPublic = !hidden
			var m models.TeamMember
			in.Apply(&m)
			m.BeforeSave(nil, now)
			_, err := s.CreateTeamMember(ctx, m)
			require.NoError(t, err)
		}
		members, total, err := s.ListTeamMembers(ctx, TeamFilter{Params: query.Params{Page: 1, Limit: 10}, PublicOnly: true})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "ana-visible", members[0].Slug)
	})
}
