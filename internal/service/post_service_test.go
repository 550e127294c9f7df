package service

import (
	"context"
	"strings"
	"testing"

	"dawgsocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn        func(context.Context, int, int, uint) ([]*models.Post, error)
	deleteFn      func(context.Context, uint) error
	likeFn        func(context.Context, uint, uint) error
	dislikeFn     func(context.Context, uint, uint) error
	isLikedFn     func(context.Context, uint, uint) (bool, error)
	isDislikedFn  func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Dislike(ctx context.Context, userID, postID uint) error {
	return s.dislikeFn(ctx, userID, postID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) IsDisliked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isDislikedFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Content: "stub"}, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		listFn:       func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		likeFn:       func(_ context.Context, _, _ uint) error { return nil },
		dislikeFn:    func(_ context.Context, _, _ uint) error { return nil },
		isLikedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		isDislikedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeValidation), "want validation error, got %v", err)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Content: "   "})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  1,
			Content: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("valid content trimmed and persisted", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		var created *models.Post
		repo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 7
			created = p
			return nil
		}
		svc2 := NewPostService(repo)

		_, err := svc2.CreatePost(ctx, CreatePostInput{UserID: 3, Content: "  hello world  "})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "hello world", created.Content)
		assert.Equal(t, uint(3), created.UserID)
	})
}

func TestPostService_LikePost_MissingPost(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	repo.likeFn = func(_ context.Context, _, _ uint) error {
		t.Fatal("Like must not be called for a missing post")
		return nil
	}
	svc := NewPostService(repo)

	err := svc.LikePost(context.Background(), 1, 404)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostService_SharePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("copies content and records the resharer", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 9, Content: "This is a sample post."}, nil
		}
		var created *models.Post
		repo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 2
			created = p
			return nil
		}
		svc := NewPostService(repo)

		_, err := svc.SharePost(ctx, SharePostInput{UserID: 5, PostID: 1, Caption: "look at this"})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "This is a sample post.", created.Content)
		assert.Equal(t, uint(9), created.UserID, "original author stays the post owner")
		require.NotNil(t, created.SharedUserID)
		assert.Equal(t, uint(5), *created.SharedUserID)
		require.NotNil(t, created.SharedAt)
		require.NotNil(t, created.SharedCaption)
		assert.Equal(t, "look at this", *created.SharedCaption)
	})

	t.Run("missing original", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(repo)

		_, err := svc.SharePost(ctx, SharePostInput{UserID: 5, PostID: 404})
		require.Error(t, err)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("empty caption stays nil", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		var created *models.Post
		repo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 3
			created = p
			return nil
		}
		svc := NewPostService(repo)

		_, err := svc.SharePost(ctx, SharePostInput{UserID: 5, PostID: 1, Caption: "  "})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Nil(t, created.SharedCaption)
	})
}

func TestPostService_DeletePost_OwnerOnly(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 1, Content: "owned by user 1"}, nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	err := svc.DeletePost(ctx, DeletePostInput{UserID: 2, PostID: 10})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))

	assert.NoError(t, svc.DeletePost(ctx, DeletePostInput{UserID: 1, PostID: 10}))
}
