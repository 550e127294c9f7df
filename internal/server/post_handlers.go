package server

import (
	"dawgsocial/internal/models"
	"dawgsocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Feed handles GET /: the post listing in default order (newest first,
// then most recently shared), with counts and the viewer's reactions.
func (s *Server) Feed(c *fiber.Ctx) error {
	p := parsePagination(c, service.DefaultFeedPageSize)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /posts/:id: a single post with its comments.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, currentUserID(c))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// UserPosts handles GET /users/:id/posts.
func (s *Server) UserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.UserPosts(c.Context(), id, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreatePost handles POST /posts. Success redirects to the feed; an empty
// or oversized body re-renders the form with 200.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content string `form:"content" json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return renderForm(c, "post", models.CodeValidation, fiber.Map{
			"form": "Invalid request body",
		})
	}

	_, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Content: req.Content,
	})
	if err != nil {
		if models.HasCode(err, models.CodeValidation) {
			return renderForm(c, "post", models.CodeValidation, fiber.Map{
				"content": err.Error(),
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return redirectToFeed(c)
}

// DeletePost handles POST /posts/:id/delete. Owner only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	err = s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	})
	if err != nil {
		switch {
		case models.HasCode(err, models.CodeNotFound):
			return redirectToFeed(c)
		case models.HasCode(err, models.CodeUnauthorized):
			return redirectToFeed(c)
		default:
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	return redirectToFeed(c)
}

// LikePost handles POST /posts/:id/like. Always redirects on an existing
// post; repeated likes are a no-op. A missing post redirects as well,
// with no user-visible error detail.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.LikePost(c.Context(), currentUserID(c), id); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return redirectToFeed(c)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return redirectToFeed(c)
}

// DislikePost handles POST /posts/:id/dislike, symmetric to LikePost.
func (s *Server) DislikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.DislikePost(c.Context(), currentUserID(c), id); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return redirectToFeed(c)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return redirectToFeed(c)
}

// SharePost handles POST /posts/:id/share: creates a new post carrying the
// original content with the acting user as resharer, then redirects.
func (s *Server) SharePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Caption string `form:"caption" json:"caption"`
	}
	// An empty body is fine; the caption is optional.
	_ = c.BodyParser(&req)

	_, err = s.postService.SharePost(c.Context(), service.SharePostInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Caption: req.Caption,
	})
	if err != nil {
		switch {
		case models.HasCode(err, models.CodeNotFound):
			return redirectToFeed(c)
		case models.HasCode(err, models.CodeValidation):
			return renderForm(c, "share", models.CodeValidation, fiber.Map{
				"caption": err.Error(),
			})
		default:
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	return redirectToFeed(c)
}
