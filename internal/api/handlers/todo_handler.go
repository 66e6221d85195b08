package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/taskbox/internal/metrics"
	"github.com/yoockh/taskbox/internal/services"
	"github.com/yoockh/taskbox/internal/utils"
)

type TodoHandler struct {
	svc services.TodoService
}

func NewTodoHandler(svc services.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

func (h *TodoHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	page := 1
	if s := c.Query("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			page = n
		}
	}
	search := c.Query("search")

	out, err := h.svc.List(c.Request.Context(), userID, page, search)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

type CreateTodoRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *TodoHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TodoHandler.Create", "invalid request body", err))
		return
	}

	todo, err := h.svc.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		if utils.IsCode(err, utils.CodeQuotaExceeded) {
			metrics.QuotaRejections.Inc()
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Todo created successfully",
		"todo":    todo,
	})
}

type UpdateTodoRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

func (h *TodoHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TodoHandler.Update", "invalid request body", err))
		return
	}

	todo, err := h.svc.SetCompleted(c.Request.Context(), userID, c.Param("id"), *req.Completed)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}
