package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"dawgsocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostComment(t *testing.T) {
	s, app := newTestServer(t)
	author := createTestUser(t, s, "author")
	commenter := createTestUser(t, s, "commenter")
	post := createTestPost(t, s, author.ID, "comment on me")
	token := login(t, app, "commenter", "testpassword")

	commentPath := fmt.Sprintf("/posts/%d/comment", post.ID)

	t.Run("valid comment redirects to feed", func(t *testing.T) {
		resp, err := app.Test(withSession(formRequest(http.MethodPost, commentPath, url.Values{
			"comment_text": {"Great post!"},
		}), token))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, FeedPath, resp.Header.Get("Location"))

		var comment models.Comment
		require.NoError(t, s.db.First(&comment).Error)
		assert.Equal(t, "Great post!", comment.Content)
		assert.Equal(t, commenter.ID, comment.UserID)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("empty text re-renders the form", func(t *testing.T) {
		resp, err := app.Test(withSession(formRequest(http.MethodPost, commentPath, url.Values{
			"comment_text": {"  "},
		}), token))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_, code, _ := decodeForm(t, resp)
		assert.Equal(t, models.CodeValidation, code)

		var count int64
		require.NoError(t, s.db.Model(&models.Comment{}).Count(&count).Error)
		assert.Equal(t, int64(1), count, "only the earlier comment exists")
	})

	t.Run("missing post redirects without error detail", func(t *testing.T) {
		resp, err := app.Test(withSession(formRequest(http.MethodPost, "/posts/9999/comment", url.Values{
			"comment_text": {"into the void"},
		}), token))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, FeedPath, resp.Header.Get("Location"))
	})

	t.Run("unauthenticated redirects to login", func(t *testing.T) {
		resp, err := app.Test(formRequest(http.MethodPost, commentPath, url.Values{
			"comment_text": {"drive-by"},
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, LoginPath, resp.Header.Get("Location"))
	})
}
