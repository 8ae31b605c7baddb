// Package httpapi exposes the REST surface of the vault.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mindvault/internal/auth"
	"mindvault/internal/domain"
	"mindvault/internal/service"
)

// Handler wires the services to gin routes.
type Handler struct {
	auth    *service.AuthService
	content *service.ContentService
	search  *service.SearchService
	share   *service.ShareService
	tokens  *auth.TokenManager
	log     *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(authSvc *service.AuthService, content *service.ContentService, search *service.SearchService, share *service.ShareService, tokens *auth.TokenManager, log *slog.Logger) *Handler {
	return &Handler{auth: authSvc, content: content, search: search, share: share, tokens: tokens, log: log}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/v1")

	api.POST("/signup", h.signup)
	api.POST("/verify-signup-otp", h.verifySignupOTP)
	api.POST("/resend-signup-otp", h.resendSignupOTP)
	api.POST("/signin", h.signin)
	api.POST("/forgot-password", h.forgotPassword)
	api.POST("/verify-reset-otp", h.verifyResetOTP)

	api.GET("/public-brains", h.publicBrains)
	api.GET("/brain/:shareLink", h.sharedBrain)

	authed := api.Group("", requireAuth(h.tokens))
	authed.POST("/change-password", h.changePassword)
	authed.GET("/me", h.me)
	authed.POST("/content", h.createContent)
	authed.GET("/content", h.listContent)
	authed.DELETE("/content", h.deleteContent)
	authed.POST("/brain/share", h.shareBrain)
	authed.GET("/brain/me/link", h.myShareLink)
	authed.DELETE("/brain/me/link", h.unshareBrain)
	authed.POST("/search/semantic", h.searchVector)
	authed.GET("/search", h.searchText)

	return r
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}
	if err := validateSignup(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input", "errors": err.Error()})
		return
	}

	err := h.auth.SignUp(c.Request.Context(), req.Username, req.Email, req.Password)
	if errors.Is(err, domain.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
		return
	}
	if err != nil {
		h.serverError(c, "signup failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":              "User created. Please check your email for verification code.",
		"requiresVerification": true,
	})
}

func (h *Handler) verifySignupOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		return
	}
	token, err := h.auth.VerifySignup(c.Request.Context(), req.Email, req.OTP)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, service.ErrAlreadyVerified):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already verified"})
	case errors.Is(err, service.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
	case err != nil:
		h.serverError(c, "verify signup OTP failed", err)
	default:
		c.JSON(http.StatusOK, tokenResponse{Message: "Email verified successfully", Token: token})
	}
}

func (h *Handler) resendSignupOTP(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}
	err := h.auth.ResendSignupOTP(c.Request.Context(), req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found or already verified"})
		return
	}
	if err != nil {
		h.serverError(c, "resend signup OTP failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code resent"})
}

func (h *Handler) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Email == "" && req.Username == "") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}
	token, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrNotVerified):
		c.JSON(http.StatusForbidden, gin.H{
			"message":              "Please verify your email before signing in",
			"requiresVerification": true,
			"email":                req.Email,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect email, username or password"})
	case err != nil:
		h.serverError(c, "signin failed", err)
	default:
		c.JSON(http.StatusOK, tokenResponse{Message: "User signed in", Token: token})
	}
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.serverError(c, "forgot password failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset code has been sent"})
}

func (h *Handler) verifyResetOTP(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email, OTP, and new password are required"})
		return
	}
	if len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters"})
		return
	}
	token, err := h.auth.VerifyReset(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, service.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
	case err != nil:
		h.serverError(c, "verify reset OTP failed", err)
	default:
		c.JSON(http.StatusOK, tokenResponse{Message: "Password reset successfully", Token: token})
	}
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Old password and new password are required"})
		return
	}
	if len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "New password must be at least 6 characters"})
		return
	}
	token, err := h.auth.ChangePassword(c.Request.Context(), callerID(c), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Current password is incorrect"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case err != nil:
		h.serverError(c, "change password failed", err)
	default:
		c.JSON(http.StatusOK, tokenResponse{Message: "Password changed successfully", Token: token})
	}
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), callerID(c))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		h.serverError(c, "fetch profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": user.Username, "email": user.Email})
}

func (h *Handler) createContent(c *gin.Context) {
	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}
	itemType := domain.ItemType(req.Type)
	if !domain.ValidType(itemType) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown content type"})
		return
	}

	item, err := h.content.Create(c.Request.Context(), callerID(c), service.CreateInput{
		Title:       req.Title,
		Link:        req.Link,
		Type:        itemType,
		Description: req.Description,
		Embedding:   req.Embedding,
	})
	if err != nil {
		h.serverError(c, "create content failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"content": item, "message": "Content added"})
}

func (h *Handler) listContent(c *gin.Context) {
	items, err := h.content.List(c.Request.Context(), callerID(c))
	if err != nil {
		h.serverError(c, "list content failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": items})
}

func (h *Handler) deleteContent(c *gin.Context) {
	var req deleteContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content ID is required"})
		return
	}
	itemID, err := uuid.Parse(req.ContentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid content ID"})
		return
	}
	if err := h.content.Delete(c.Request.Context(), callerID(c), itemID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		h.serverError(c, "delete content failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted"})
}

func (h *Handler) shareBrain(c *gin.Context) {
	link, username, err := h.share.Share(c.Request.Context(), callerID(c))
	if err != nil {
		h.serverError(c, "share brain failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hash": link.Hash, "username": username})
}

func (h *Handler) myShareLink(c *gin.Context) {
	link, username, err := h.share.MyLink(c.Request.Context(), callerID(c))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not shared"})
		return
	}
	if err != nil {
		h.serverError(c, "fetch share link failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hash": link.Hash, "username": username})
}

func (h *Handler) unshareBrain(c *gin.Context) {
	if err := h.share.Unshare(c.Request.Context(), callerID(c)); err != nil {
		h.serverError(c, "unshare brain failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unshared"})
}

func (h *Handler) sharedBrain(c *gin.Context) {
	hash := strings.TrimSpace(c.Param("shareLink"))
	username, items, err := h.share.Resolve(c.Request.Context(), hash)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	if err != nil {
		h.serverError(c, "resolve shared brain failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "content": items})
}

func (h *Handler) publicBrains(c *gin.Context) {
	brains, err := h.share.ListPublic(c.Request.Context())
	if err != nil {
		h.serverError(c, "list public brains failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brains": brains})
}

// searchVector ranks the caller's items against a client-embedded query
// vector. A missing vector is a validation error, not an empty search.
func (h *Handler) searchVector(c *gin.Context) {
	var req vectorSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Vector == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing query vector"})
		return
	}
	results, err := h.search.SearchVector(c.Request.Context(), callerID(c), req.Vector)
	if err != nil {
		h.serverError(c, "semantic search failed", err)
		return
	}
	if results == nil {
		results = []domain.ScoredItem{}
	}
	c.JSON(http.StatusOK, searchResponse{Results: results})
}

// searchText embeds the query server-side and runs the same ranking.
func (h *Handler) searchText(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing query text"})
		return
	}
	results, err := h.search.SearchText(c.Request.Context(), callerID(c), query)
	if err != nil {
		h.serverError(c, "semantic search failed", err)
		return
	}
	if results == nil {
		results = []domain.ScoredItem{}
	}
	c.JSON(http.StatusOK, searchResponse{Results: results})
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
}
