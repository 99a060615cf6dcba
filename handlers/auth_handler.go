package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/lamasia-league/middleware"
	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/navigation"
	"github.com/Dosada05/lamasia-league/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
)

const defaultTokenTTL = 24 * time.Hour

// Navigator is the view-router surface used by the HTTP layer.
type Navigator interface {
	Current(userID int) navigation.State
	Navigate(user *models.User, view navigation.View) (navigation.State, error)
	SelectTeam(user *models.User, teamID int) navigation.State
	Reset(userID int)
}

type AuthHandler struct {
	authService    services.AuthService
	sessionService services.SessionService
	navigator      Navigator
	jwtSecret      []byte
	clock          clockwork.Clock
}

func NewAuthHandler(authService services.AuthService, sessionService services.SessionService, navigator Navigator, jwtSecret string, clock clockwork.Clock) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		navigator:      navigator,
		jwtSecret:      []byte(jwtSecret),
		clock:          clock,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// регистрация сразу открывает сессию
	subject := services.Subject{ID: user.ID, Email: user.Email, DisplayName: user.Name}
	h.startSession(w, r, http.StatusCreated, subject)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	identity, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	subject := services.Subject{ID: identity.ID, Email: identity.Email, DisplayName: identity.DisplayName}
	h.startSession(w, r, http.StatusOK, subject)
}

// startSession binds the profile, resets navigation and answers with a fresh token.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, subject services.Subject) {
	user, err := h.sessionService.Bind(r.Context(), subject)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	// сессия всегда начинается с домашнего экрана
	h.navigator.Reset(user.ID)

	tokenString, err := h.issueToken(subject)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	respond(w, r, status, jsonResponse{
		"token": tokenString,
		"user":  user,
	})
}

// Logout only resets navigation; tokens are stateless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.navigator.Reset(user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issueToken(subject services.Subject) (string, error) {
	now := h.clock.Now()
	claims := jwt.MapClaims{
		middleware.ClaimSubject: strconv.Itoa(subject.ID),
		middleware.ClaimEmail:   subject.Email,
		middleware.ClaimName:    subject.DisplayName,
		middleware.ClaimExpires: now.Add(defaultTokenTTL).Unix(),
		middleware.ClaimIssued:  now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}
