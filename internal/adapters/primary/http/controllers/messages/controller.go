package messages

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
)

// Controller переписка по заявке для клиентского дашборда
type Controller struct {
	Dispatch service.IDispatchService
	Log      *slog.Logger
}

func New(dispatch service.IDispatchService, log *slog.Logger) *Controller {
	return &Controller{
		Dispatch: dispatch,
		Log:      log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	requests := router.Group("/requests")
	{
		requests.GET("/:id/messages", c.listMessages)
		requests.POST("/:id/messages", c.sendMessage)
	}
}

// SendMessageRequest сообщение клиента в переписку
type SendMessageRequest struct {
	Body       string `json:"body" binding:"required"`
	SenderName string `json:"sender_name"`
}

func (c *Controller) listMessages(ctx *gin.Context) {
	requestID, ok := c.requestID(ctx)
	if !ok {
		return
	}

	list, err := c.Dispatch.ListMessages(ctx.Request.Context(), requestID)
	if errors.Is(err, domain.ErrRequestNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if err != nil {
		c.Log.Error("failed to list messages",
			"error", err,
			"request_id", requestID,
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"messages": list})
}

func (c *Controller) sendMessage(ctx *gin.Context) {
	requestID, ok := c.requestID(ctx)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	message, err := c.Dispatch.SendAsCustomer(ctx.Request.Context(), requestID, req.Body, req.SenderName)
	if errors.Is(err, domain.ErrRequestNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if domain.IsBusinessError(err) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.Log.Error("failed to send customer message",
			"error", err,
			"request_id", requestID,
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": message})
}

func (c *Controller) requestID(ctx *gin.Context) (uuid.UUID, bool) {
	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return uuid.Nil, false
	}
	return requestID, true
}
