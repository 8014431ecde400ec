package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-core/internal/app"
	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

type EntitlementsHandler struct {
	gate app.EntitlementsGate
	auth *Authenticator
}

func NewEntitlementsHandler(gate app.EntitlementsGate, auth *Authenticator) *EntitlementsHandler {
	return &EntitlementsHandler{
		gate: gate,
		auth: auth,
	}
}

func (h *EntitlementsHandler) GetEntitlements(c *gin.Context) {
	output := h.gate.GetUserEntitlements(c.Request.Context(), callerID(c))
	c.JSON(http.StatusOK, FromEntitlements(output))
}

// CheckFeature answers the boolean gate, or the limit gate when usage is given.
func (h *EntitlementsHandler) CheckFeature(c *gin.Context) {
	feature, err := domain.NewFeatureKey(c.Param("feature"))
	if err != nil {
		handleError(c, app.WrapValidationError("feature", err))

		return
	}

	var req FeatureAccessRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)

		return
	}

	ctx := c.Request.Context()
	userID := callerID(c)

	resp := FeatureAccessResponse{
		Feature: string(feature),
		Usage:   req.Usage,
	}

	if req.Usage != nil {
		resp.Allowed = h.gate.CheckLimit(ctx, userID, feature, *req.Usage)
	} else {
		resp.Allowed = h.gate.CheckFeatureAccess(ctx, userID, feature)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EntitlementsHandler) GetSubscription(c *gin.Context) {
	output := h.gate.GetUserSubscription(c.Request.Context(), callerID(c))
	c.JSON(http.StatusOK, FromSubscription(output))
}

func (h *EntitlementsHandler) GetTrial(c *gin.Context) {
	ctx := c.Request.Context()
	userID := callerID(c)

	c.JSON(http.StatusOK, TrialResponse{
		CanStartTrial: h.gate.CanStartTrial(ctx, userID),
		RemainingDays: h.gate.GetRemainingTrialDays(ctx, userID),
	})
}

// SignIn is called by the UI shell after the backend session changes.
func (h *EntitlementsHandler) SignIn(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)

		return
	}

	userID, err := h.auth.UserID(req.AccessToken)
	if err != nil {
		slog.Warn("sign-in with invalid token",
			"error", err,
		)
		handleError(c, app.ErrUnauthenticated)

		return
	}

	h.gate.OnAuthStateChange(c.Request.Context(), userID)

	slog.Info("session started",
		"user_id", userID,
	)
	c.JSON(http.StatusOK, FromEntitlements(h.gate.GetUserEntitlements(c.Request.Context(), userID)))
}

func (h *EntitlementsHandler) SignOut(c *gin.Context) {
	h.gate.OnAuthStateChange(c.Request.Context(), "")
	c.Status(http.StatusNoContent)
}

func (h *EntitlementsHandler) RegisterRoutes(router *gin.RouterGroup) {
	optional := router.Group("", h.auth.OptionalUser())
	{
		optional.GET("/entitlements", h.GetEntitlements)
		optional.GET("/entitlements/features/:feature", h.CheckFeature)
		optional.GET("/subscription", h.GetSubscription)
		optional.GET("/subscription/trial", h.GetTrial)
	}

	router.POST("/session", h.SignIn)
	router.DELETE("/session", h.SignOut)
}
