package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/neomovies/internal/auth"
	"github.com/shapedtime/neomovies/internal/neoapi"
)

// SessionResponse describes the local session
type SessionResponse struct {
	State        auth.State   `json:"state"`
	Profile      auth.Profile `json:"profile"`
	PendingEmail string       `json:"pendingEmail,omitempty"`
}

// AuthResponse is returned by auth actions
type AuthResponse struct {
	State    auth.State `json:"state"`
	Redirect string     `json:"redirect,omitempty"`
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type verifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// getSession returns the stored identity and flow state
// GET /api/session
func (s *Server) getSession(c *gin.Context) {
	profile, err := s.auth.Profile()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		State:        s.auth.State(),
		Profile:      profile,
		PendingEmail: s.auth.PendingEmail(),
	})
}

// login exchanges credentials for a session
// POST /api/auth/login
func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.runAuth(c, func() error {
		return s.auth.Login(c.Request.Context(), req.Email, req.Password)
	})
}

// register creates an account pending e-mail verification
// POST /api/auth/register
func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.runAuth(c, func() error {
		return s.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	})
}

// verify confirms the pending registration and logs in
// POST /api/auth/verify
func (s *Server) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Code is required")
		return
	}

	s.runAuth(c, func() error {
		return s.auth.VerifyCode(c.Request.Context(), req.Code)
	})
}

// resendCode sends a new verification code
// POST /api/auth/resend-code
func (s *Server) resendCode(c *gin.Context) {
	s.runAuth(c, func() error {
		return s.auth.ResendCode(c.Request.Context())
	})
}

// cancelRegistration drops the pending registration
// POST /api/auth/cancel
func (s *Server) cancelRegistration(c *gin.Context) {
	s.runAuth(c, s.auth.CancelRegistration)
}

// logout clears the session
// POST /api/auth/logout
func (s *Server) logout(c *gin.Context) {
	s.runAuth(c, s.auth.Logout)
}

// runAuth runs one auth action and answers with the route it navigated to.
// Actions are serialized so a redirect is never handed to another request.
func (s *Server) runAuth(c *gin.Context, action func() error) {
	s.authMu.Lock()
	defer s.authMu.Unlock()

	s.routes.Take()
	if err := action(); err != nil {
		s.routes.Take()
		errorResponse(c, errorStatus(err), s.messages(c).Error(err))
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		State:    s.auth.State(),
		Redirect: s.routes.Take(),
	})
}

// errorStatus maps flow and client errors onto HTTP statuses.
func errorStatus(err error) int {
	var remoteErr *neoapi.RemoteRequestError
	var transportErr *neoapi.TransportError

	switch {
	case errors.Is(err, auth.ErrSessionExpired):
		return http.StatusGone
	case errors.Is(err, auth.ErrNoToken), errors.Is(err, auth.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &remoteErr):
		if remoteErr.Status >= 400 {
			return remoteErr.Status
		}
		return http.StatusBadRequest
	case errors.As(err, &transportErr):
		// Client errors from the remote keep their status; everything else
		// is a bad gateway.
		if transportErr.Status >= 400 && transportErr.Status < 500 {
			return transportErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
