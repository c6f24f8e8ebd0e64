package http

import (
	"net/http"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (a *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := a.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Login successful", resp)
}

// Register implements AuthHandler.
func (a *authHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := a.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "User registered successfully", resp)
}

// ListUsers implements AuthHandler.
func (a *authHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := a.authService.ListUsers(r.Context())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// Profile implements AuthHandler.
func (a *authHandlerImpl) Profile(w http.ResponseWriter, r *http.Request) {
	resp, err := a.authService.Profile(r.Context())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}
