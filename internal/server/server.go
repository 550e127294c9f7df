// Package server contains the HTTP handlers for the application's endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"dawgsocial/internal/cache"
	"dawgsocial/internal/config"
	"dawgsocial/internal/database"
	"dawgsocial/internal/middleware"
	"dawgsocial/internal/repository"
	"dawgsocial/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Named routes. Handlers and middleware redirect by these constants;
// the paths themselves are an implementation detail of the web layer.
const (
	FeedPath     = "/"
	LoginPath    = "/login"
	RegisterPath = "/register"
	LogoutPath   = "/logout"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("dawgsocial"),
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
	}
	server.postService = service.NewPostService(postRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo)

	return server
}

// SetupMiddleware registers the ambient middleware stack.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
}

// SetupRoutes registers all HTTP routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Authentication & registration. Login and register POSTs are
	// rate-limited by IP against credential stuffing.
	authLimit := middleware.RateLimit(s.redis, 10, time.Minute, "auth")
	app.Get(LoginPath, s.LoginForm).Name("login")
	app.Post(LoginPath, authLimit, s.Login)
	app.Get(RegisterPath, s.RegisterForm).Name("register")
	app.Post(RegisterPath, authLimit, s.Register)
	app.Post(LogoutPath, s.Logout).Name("logout")

	// Feed and post reads are public; the viewer's reactions are shown
	// when a session is present.
	app.Get(FeedPath, middleware.SessionOptional(), s.Feed).Name("feed")
	app.Get("/posts/:id", middleware.SessionOptional(), s.GetPost).Name("post_detail")
	app.Get("/users/:id/posts", middleware.SessionOptional(), s.UserPosts).Name("user_posts")

	// Mutations require a session; without one the middleware redirects
	// to the login page.
	auth := middleware.SessionRequired(LoginPath)
	app.Post("/posts", auth, s.CreatePost).Name("create_post")
	app.Post("/posts/:id/delete", auth, s.DeletePost).Name("delete_post")
	app.Post("/posts/:id/like", auth, s.LikePost).Name("like_post")
	app.Post("/posts/:id/dislike", auth, s.DislikePost).Name("dislike_post")
	app.Post("/posts/:id/comment", auth, s.PostComment).Name("post_comment")
	app.Post("/posts/:id/share", auth, s.SharePost).Name("share_post")
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
