package server

import (
	"dawgsocial/internal/models"
	"dawgsocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostComment handles POST /posts/:id/comment with a comment_text field.
// Success redirects; empty text re-renders the form with 200; a missing
// post redirects with no error detail.
func (s *Server) PostComment(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		CommentText string `form:"comment_text" json:"comment_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return renderForm(c, "comment", models.CodeValidation, fiber.Map{
			"form": "Invalid request body",
		})
	}

	_, err = s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Content: req.CommentText,
	})
	if err != nil {
		switch {
		case models.HasCode(err, models.CodeNotFound):
			return redirectToFeed(c)
		case models.HasCode(err, models.CodeValidation):
			return renderForm(c, "comment", models.CodeValidation, fiber.Map{
				"comment_text": err.Error(),
			})
		default:
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	return redirectToFeed(c)
}
