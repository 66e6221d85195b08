package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/taskbox/internal/services"
)

type SubscriptionHandler struct {
	svc services.SubscriptionService
}

func NewSubscriptionHandler(svc services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

func (h *SubscriptionHandler) Status(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	st, err := h.svc.Status(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, st)
}

func (h *SubscriptionHandler) Activate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ends, err := h.svc.Activate(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Subscription successful",
		"subscriptionEnds": ends,
	})
}
