package handlers

import (
	"context"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/pkg/logger"
)

// AuthHandler handles authentication and account lifecycle requests
type AuthHandler struct {
	userRepository         repositories.UserRepository
	friendshipRepository   repositories.FriendshipRepository
	likeRepository         repositories.LikeRepository
	commentRepository      repositories.CommentRepository
	notificationRepository repositories.NotificationRepository
	chatRepository         repositories.ChatRepository
	postRepository         repositories.PostRepository
	firebaseAuth           *auth.Client
	jwtSecret              string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userRepo repositories.UserRepository,
	friendshipRepo repositories.FriendshipRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	notificationRepo repositories.NotificationRepository,
	chatRepo repositories.ChatRepository,
	postRepo repositories.PostRepository,
	firebaseAuthClient *auth.Client,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		userRepository:         userRepo,
		friendshipRepository:   friendshipRepo,
		likeRepository:         likeRepo,
		commentRepository:      commentRepo,
		notificationRepository: notificationRepo,
		chatRepository:         chatRepo,
		postRepository:         postRepo,
		firebaseAuth:           firebaseAuthClient,
		jwtSecret:              jwtSecret,
	}
}

// RegisterAuthRoutes registers unauthenticated authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// RegisterAccountRoutes registers authenticated account routes
func (h *AuthHandler) RegisterAccountRoutes(g *echo.Group) {
	g.DELETE("/account", h.DeleteAccount)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if user with this email already exists
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}
	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Username is already taken")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    string(hashedPassword),
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken  string `json:"idToken" validate:"required"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT,
// creating the profile on first sign-in.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase authentication is not configured")
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	firebaseUID := token.UID
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
		}
		// First sign-in for this Firebase identity. Reuse an existing local
		// account with the same email, otherwise create a fresh profile.
		user, err = h.userRepository.GetUserByEmail(email)
		switch {
		case err == nil:
			user.FirebaseUID = &firebaseUID
			if err := h.userRepository.UpdateUser(user); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to link Firebase account")
			}
		case err == gorm.ErrRecordNotFound:
			username := req.Username
			if username == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "Username is required for first sign-in")
			}
			if _, err := h.userRepository.GetUserByUsername(username); err == nil {
				return echo.NewHTTPError(http.StatusConflict, "Username is already taken")
			}
			user = &models.User{
				Username:    username,
				DisplayName: name,
				Email:       email,
				FirebaseUID: &firebaseUID,
			}
			if user.DisplayName == "" {
				user.DisplayName = username
			}
			if err := h.userRepository.CreateUser(user); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
			}
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
		}
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": localJWT, "user": user})
}

// DeleteAccount re-verifies credentials and runs the deletion cascade. The
// cascade is a step-by-step sequence with no rollback: a mid-sequence
// failure leaves a partially deleted account and is reported as such, never
// as success.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	// Re-verify before the destructive sequence.
	switch {
	case user.Password != "":
		if req.Password == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Password is required to delete the account")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
		}
	case user.FirebaseUID != nil:
		if h.firebaseAuth == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase authentication is not configured")
		}
		if req.IDToken == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "A fresh ID token is required to delete the account")
		}
		token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
		if err != nil || token.UID != *user.FirebaseUID {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid ID token")
		}
	}

	ctx := c.Request().Context()
	steps := []struct {
		name string
		run  func() error
	}{
		{"friendships", func() error { return h.friendshipRepository.DeleteAllForUser(user.ID) }},
		{"likes", func() error { return h.likeRepository.DeleteAllByUser(user.ID) }},
		{"comments", func() error { return h.commentRepository.DeleteAllByUser(user.ID) }},
		{"notifications", func() error { return h.notificationRepository.DeleteAllForUser(user.ID) }},
		{"chats", func() error { return h.chatRepository.DeleteAllForUser(user.ID) }},
		{"posts", func() error { return h.postRepository.DeletePostsByUser(ctx, user.ID) }},
		{"profile", func() error { return h.userRepository.DeleteUser(user.ID) }},
		{"auth record", func() error {
			if user.FirebaseUID == nil || h.firebaseAuth == nil {
				return nil
			}
			return h.firebaseAuth.DeleteUser(context.Background(), *user.FirebaseUID)
		}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			logger.Error("account deletion failed mid-sequence",
				zap.Uint("user_id", user.ID), zap.String("step", step.name), zap.Error(err))
			return echo.NewHTTPError(http.StatusBadGateway,
				"Account deletion failed while deleting "+step.name+"; the account is partially deleted")
		}
		logger.Info("account deletion step completed",
			zap.Uint("user_id", user.ID), zap.String("step", step.name))
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)), // Token expires in 72 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
