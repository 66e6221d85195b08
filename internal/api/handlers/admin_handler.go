package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/taskbox/internal/services"
)

type AdminHandler struct {
	svc services.UserService
}

func NewAdminHandler(svc services.UserService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	page := 1
	if s := c.Query("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			page = n
		}
	}

	out, err := h.svc.ListUsers(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
