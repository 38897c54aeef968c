package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
)

type AuthHandler interface {
	LoginSuperAdmin(w http.ResponseWriter, r *http.Request)
	LoginCompanyAdmin(w http.ResponseWriter, r *http.Request)
	LoginEmployee(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// formLogin reads the username/password form used by the admin consoles.
func formLogin(w http.ResponseWriter, r *http.Request) (auth.LoginRequest, bool) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Failed to parse form data", nil)
		return auth.LoginRequest{}, false
	}
	return auth.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, true
}

// LoginSuperAdmin implements AuthHandler.
func (a *AuthHandlerImpl) LoginSuperAdmin(w http.ResponseWriter, r *http.Request) {
	loginReq, ok := formLogin(w, r)
	if !ok {
		return
	}

	tokenResponse, err := a.authService.LoginSuperAdmin(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Super admin login failed", "username", loginReq.Username, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged in", tokenResponse)
}

// LoginCompanyAdmin implements AuthHandler.
func (a *AuthHandlerImpl) LoginCompanyAdmin(w http.ResponseWriter, r *http.Request) {
	loginReq, ok := formLogin(w, r)
	if !ok {
		return
	}

	tokenResponse, err := a.authService.LoginCompanyAdmin(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Company admin login failed", "username", loginReq.Username, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged in", tokenResponse)
}

// LoginEmployee implements AuthHandler.
func (a *AuthHandlerImpl) LoginEmployee(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.EmployeeLoginRequest
	if !decodeJSON(w, r, &loginReq) {
		return
	}

	tokenResponse, err := a.authService.LoginEmployee(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Employee login failed", "employee_id", loginReq.EmployeeID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged in", tokenResponse)
}
