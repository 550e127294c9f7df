package server

import (
	"fmt"
	"strconv"
	"time"

	"dawgsocial/internal/middleware"
	"dawgsocial/internal/models"
	"dawgsocial/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LoginForm handles GET /login: renders the empty login form.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return renderForm(c, "login", "", fiber.Map{})
}

// Login handles POST /login. A matching username/password pair starts a
// session and redirects; anything else re-renders the form with status 200
// and no session.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return renderForm(c, "login", models.CodeValidation, fiber.Map{
			"form": "Invalid request body",
		})
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return renderForm(c, "login", models.CodeInvalidCredentials, fiber.Map{
			"form": "Invalid username or password",
		})
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return renderForm(c, "login", models.CodeInvalidCredentials, fiber.Map{
			"form": "Invalid username or password",
		})
	}

	if err := s.startSession(c, user, "login"); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Redirect(FeedPath, fiber.StatusFound)
}

// RegisterForm handles GET /register: renders the empty registration form.
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	return renderForm(c, "register", "", fiber.Map{})
}

// Register handles POST /register. On success the user is created and a
// session starts immediately; recoverable failures re-render with 200 and
// create nothing.
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username  string `form:"username" json:"username"`
		FirstName string `form:"first_name" json:"first_name"`
		LastName  string `form:"last_name" json:"last_name"`
		Email     string `form:"email" json:"email"`
		Password1 string `form:"password1" json:"password1"`
		Password2 string `form:"password2" json:"password2"`
	}
	if err := c.BodyParser(&req); err != nil {
		return renderForm(c, "register", models.CodeValidation, fiber.Map{
			"form": "Invalid request body",
		})
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return renderForm(c, "register", models.CodeValidation, fiber.Map{
			"username": err.Error(),
		})
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return renderForm(c, "register", models.CodeValidation, fiber.Map{
			"email": err.Error(),
		})
	}
	if err := validation.ValidatePassword(req.Password1); err != nil {
		return renderForm(c, "register", models.CodeValidation, fiber.Map{
			"password1": err.Error(),
		})
	}
	if req.Password1 != req.Password2 {
		return renderForm(c, "register", models.CodePasswordMismatch, fiber.Map{
			"password2": "The two password fields do not match",
		})
	}

	existing, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existing != nil {
		return renderForm(c, "register", models.CodeDuplicateUsername, fiber.Map{
			"username": fmt.Sprintf("Username %q is already taken", req.Username),
		})
	}
	existingEmail, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existingEmail != nil {
		return renderForm(c, "register", models.CodeValidation, fiber.Map{
			"email": "An account with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
	}
	if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
		// A concurrent registration can win the race between the
		// pre-check above and the insert; the unique constraint still
		// holds, so answer it like any other taken username.
		if models.HasCode(createErr, models.CodeDuplicateUsername) {
			return renderForm(c, "register", models.CodeDuplicateUsername, fiber.Map{
				"username": fmt.Sprintf("Username %q is already taken", req.Username),
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	if err := s.startSession(c, user, "register"); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Redirect(FeedPath, fiber.StatusFound)
}

// Logout handles POST /logout: clears the session cookie and redirects.
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(LoginPath, fiber.StatusFound)
}

// startSession issues a signed session token for the user and sets the
// session cookie. Subsequent requests read authenticated state from it.
func (s *Server) startSession(c *fiber.Ctx, user *models.User, source string) error {
	token, err := s.generateSessionToken(user.ID, user.Username)
	if err != nil {
		return err
	}

	ttl := time.Duration(s.config.SessionTTLhrs) * time.Hour
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	middleware.SessionsIssued.WithLabelValues(source).Inc()
	return nil
}

// generateSessionToken creates the signed token carried by the session cookie.
func (s *Server) generateSessionToken(userID uint, username string) (string, error) {
	if s.config.SessionSecret == "" {
		return "", fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"username": username,
		"iss":      "dawgsocial",
		"exp":      now.Add(time.Duration(s.config.SessionTTLhrs) * time.Hour).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SessionSecret))
}
