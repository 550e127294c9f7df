package seed

import (
	"fmt"
	"log/slog"
	"math/rand"

	"dawgsocial/internal/middleware"
	"dawgsocial/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options controls the size of the generated demo dataset.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	ShareFraction   float64
}

// DefaultOptions is a small but lively demo mesh.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		PostsPerUser:    4,
		CommentsPerPost: 2,
		ShareFraction:   0.2,
	}
}

// Run populates the database with a demo social mesh: users, posts,
// comments, reactions, and a sprinkling of reshares.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db)
	rng := rand.New(rand.NewSource(42))

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, u)
	}

	var posts []*models.Post
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			p, err := f.CreatePost(u)
			if err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, p)
		}
	}

	for _, p := range posts {
		for i := 0; i < opts.CommentsPerPost; i++ {
			commenter := users[rng.Intn(len(users))]
			if _, err := f.CreateComment(commenter, p); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}

		// Reactions: every post gets a few likers, the odd disliker.
		for _, u := range users {
			switch rng.Intn(4) {
			case 0, 1:
				like := &models.PostLike{UserID: u.ID, PostID: p.ID}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
					return fmt.Errorf("seed like: %w", err)
				}
			case 2:
				dislike := &models.PostDislike{UserID: u.ID, PostID: p.ID}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(dislike).Error; err != nil {
					return fmt.Errorf("seed dislike: %w", err)
				}
			}
		}

		if rng.Float64() < opts.ShareFraction {
			sharer := users[rng.Intn(len(users))]
			if _, err := f.SharePost(sharer, p); err != nil {
				return fmt.Errorf("seed share: %w", err)
			}
		}
	}

	middleware.Logger.Info("seed completed",
		slog.Int("users", len(users)),
		slog.Int("posts", len(posts)),
	)
	return nil
}
