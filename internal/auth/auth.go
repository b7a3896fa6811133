package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/questforge/questforge-api/internal/activity"
	"github.com/questforge/questforge-api/internal/config"
	"github.com/questforge/questforge-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	activity *activity.Recorder
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, recorder *activity.Recorder) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, activity: recorder}
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

func (h *AuthHandler) parseToken(tokenString string) (uint, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("invalid token claims")
	}

	var expiry time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expiry = time.Unix(int64(exp), 0)
	}
	return uint(userIDFloat), expiry, nil
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
}

func ToUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		XP:        user.XP,
		Level:     user.Level,
	}
}

type RegisterRequest struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"Email address" required:"true"`
		Username string `json:"username" minLength:"3" maxLength:"50" doc:"Unique username" required:"true"`
		Password string `json:"password" minLength:"8" doc:"Password" required:"true"`
		FullName string `json:"full_name" doc:"Full name"`
	}
}

type AuthResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      UserResponse
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{
		Email:          input.Body.Email,
		Username:       input.Body.Username,
		HashedPassword: string(hashed),
		FullName:       input.Body.FullName,
		XP:             0,
		Level:          1,
		IsActive:       true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, huma.Error409Conflict("Email or username already taken")
		}
		return nil, huma.Error500InternalServerError("Failed to create user")
	}

	if h.activity != nil {
		event := models.ActivityEvent{
			EventType: models.ActivityUserRegistered,
			UserID:    user.ID,
			Title:     fmt.Sprintf("%s joined QuestForge!", user.Username),
		}
		if err := h.activity.Record(event); err != nil {
			return nil, huma.Error500InternalServerError("Failed to record activity")
		}
	}

	return h.authResponse(user)
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"Email address" required:"true"`
		Password string `json:"password" doc:"Password" required:"true"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := h.db.Where("email = ?", input.Body.Email).First(&user).Error; err != nil {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Body.Password)); err != nil {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}
	if !user.IsActive {
		return nil, huma.Error403Forbidden("Account is deactivated")
	}

	return h.authResponse(user)
}

func (h *AuthHandler) authResponse(user models.User) (*AuthResponse, error) {
	token, err := h.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	return &AuthResponse{
		SetCookie: http.Cookie{
			Name:     "auth_token",
			Value:    token,
			Expires:  time.Now().Add(TokenDuration),
			HttpOnly: true,
			Path:     "/",
		},
		Body: ToUserResponse(user),
	}, nil
}

type MeRequest struct{}

type MeResponse struct {
	Body UserResponse
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	return &MeResponse{Body: ToUserResponse(user)}, nil
}
