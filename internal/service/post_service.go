// Package service contains the business rules layered over the repositories.
package service

import (
	"context"
	"strings"
	"time"

	"dawgsocial/internal/cache"
	"dawgsocial/internal/models"
	"dawgsocial/internal/repository"
)

const maxPostLen = 10000

// DefaultFeedPageSize is the feed page size when the client does not ask
// for one. Only this exact page is cached, so a request with a smaller
// limit can never poison the page served to default-feed readers.
const DefaultFeedPageSize = 20

// PostService implements post creation, listing, deletion, reactions, and
// resharing.
type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID  uint
	Content string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

type SharePostInput struct {
	UserID  uint
	PostID  uint
	Caption string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 10000 characters)")
	}

	post := &models.Post{
		Content: content,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ListPosts returns the feed in default ordering (newest first, then most
// recently shared). The anonymous first page at the default size is served
// cache-aside; any other limit or offset goes straight to the store.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.CurrentUserID == 0 && in.Offset == 0 && in.Limit == DefaultFeedPageSize {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, in.Limit, in.Offset, 0)
			return fetchErr
		})
		return posts, err
	}
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *PostService) GetPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) UserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// LikePost idempotently adds the user to the post's liked_by set. Liking
// again is a no-op, not an error.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.postRepo.Like(ctx, userID, postID)
}

// DislikePost is symmetric to LikePost.
func (s *PostService) DislikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.postRepo.Dislike(ctx, userID, postID)
}

// SharePost creates a new post carrying the original content, with the
// acting user recorded as the resharer and the share time set to now.
func (s *PostService) SharePost(ctx context.Context, in SharePostInput) (*models.Post, error) {
	original, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, err
	}

	caption := strings.TrimSpace(in.Caption)
	if len(caption) > maxPostLen {
		return nil, models.NewValidationError("Caption too long (max 10000 characters)")
	}

	now := time.Now()
	shared := &models.Post{
		Content:      original.Content,
		UserID:       original.UserID,
		SharedUserID: &in.UserID,
		SharedAt:     &now,
	}
	if caption != "" {
		shared.SharedCaption = &caption
	}
	if err := s.postRepo.Create(ctx, shared); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, shared.ID, in.UserID)
}
