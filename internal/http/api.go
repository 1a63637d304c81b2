package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/owenwexler/mockabase/internal/domain"
	"github.com/owenwexler/mockabase/internal/service"
	"github.com/owenwexler/mockabase/internal/session"
)

// Handler wires HTTP routes to the account service and session store.
//
// Every response is the {data, error} envelope with HTTP 200: domain
// failures ride in the body as one of the closed error codes, never as an
// HTTP status. Clients must inspect error.code.
type Handler struct {
	accounts           service.AccountService
	sessions           session.Store
	oauthEmail         string
	oauthPassword      string
	changePasswordPath string
	logger             *logrus.Logger
}

// Options carries the env-configured pieces of the handler.
type Options struct {
	// MockOAuthEmail/MockOAuthPassword are the fixed identity the
	// /mock-oauth/:provider shortcut signs in. Unset means the route
	// reports bad_oauth_callback.
	MockOAuthEmail    string
	MockOAuthPassword string
	// ChangePasswordPath is the route the client facade calls for password
	// updates. Defaults to /change-password.
	ChangePasswordPath string
}

func NewHandler(accounts service.AccountService, sessions session.Store, opts Options, logger *logrus.Logger) *Handler {
	if opts.ChangePasswordPath == "" {
		opts.ChangePasswordPath = "/change-password"
	}
	return &Handler{
		accounts:           accounts,
		sessions:           sessions,
		oauthEmail:         opts.MockOAuthEmail,
		oauthPassword:      opts.MockOAuthPassword,
		changePasswordPath: opts.ChangePasswordPath,
		logger:             logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Pick a route")
	})

	router.POST("/seed", h.seed)
	router.POST("/signup", h.signup)
	router.POST("/login", h.login)
	router.POST("/mock-oauth/:provider", h.mockOAuth)
	router.POST("/logout", h.logout)
	router.GET("/get-current-session", h.getCurrentSession)
	router.DELETE("/delete-user/:id", h.deleteUser)
	router.DELETE("/delete-multiple-users", h.deleteMultipleUsers)
	router.DELETE("/clear", h.clear)
	router.POST(h.changePasswordPath, h.changePassword)
}

type envelope struct {
	Data  any           `json:"data"`
	Error *domain.Error `json:"error"`
}

type userData struct {
	User domain.PublicUser `json:"user"`
}

type sessionData struct {
	User domain.Session `json:"user"`
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// respondErr embeds err in the envelope. Anything outside the closed
// taxonomy collapses to internal_server_error here so the wire contract
// stays enumerable.
func respondErr(c *gin.Context, err error) {
	var apiErr *domain.Error
	if !errors.As(err, &apiErr) {
		apiErr = domain.ErrInternalServer
	}
	c.JSON(http.StatusOK, envelope{Error: apiErr})
}

type signupRequest struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) seed(c *gin.Context) {
	var entries []service.SeedUser
	if err := c.ShouldBindJSON(&entries); err != nil {
		respondErr(c, domain.ErrMissingInputs)
		return
	}

	seeded, err := h.accounts.Seed(c.Request.Context(), entries)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := make([]userData, len(seeded))
	for i, u := range seeded {
		resp[i] = userData{User: u}
	}
	respondData(c, resp)
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, domain.ErrMissingInputs)
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), req.ID, req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, userData{User: user})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, domain.ErrMissingInputs)
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.sessions.Create(c.Request.Context(), domain.Session{ID: user.ID, Email: user.Email})
	respondData(c, userData{User: user})
}

func (h *Handler) mockOAuth(c *gin.Context) {
	provider := c.Param("provider")

	if h.oauthEmail == "" || h.oauthPassword == "" {
		h.logger.Warnf("mock oauth %s: no identity configured", provider)
		respondErr(c, domain.ErrBadOAuthCallback)
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), h.oauthEmail, h.oauthPassword)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.sessions.Create(c.Request.Context(), domain.Session{ID: user.ID, Email: user.Email})
	respondData(c, userData{User: user})
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Destroy(c.Request.Context())
	respondData(c, nil)
}

func (h *Handler) getCurrentSession(c *gin.Context) {
	current, ok := h.sessions.Current(c.Request.Context())
	if !ok {
		// logged out is an ordinary outcome, not an error
		respondData(c, nil)
		return
	}
	respondData(c, sessionData{User: current})
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, nil)
}

func (h *Handler) deleteMultipleUsers(c *gin.Context) {
	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		respondErr(c, domain.ErrMissingInputs)
		return
	}

	deleted, err := h.accounts.DeleteUsers(c.Request.Context(), ids)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, gin.H{"deleted": deleted})
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.accounts.DeleteAll(c.Request.Context()); err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, nil)
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, domain.ErrMissingInputs)
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, nil)
}
