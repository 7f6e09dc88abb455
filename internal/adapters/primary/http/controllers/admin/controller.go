package admin

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
)

// Controller административные операции над заявками. Единственный путь
// назад по жизненному циклу (reset) и принудительное закрытие.
type Controller struct {
	Dispatch service.IDispatchService
	Token    string
	Log      *slog.Logger
}

func New(dispatch service.IDispatchService, token string, log *slog.Logger) *Controller {
	return &Controller{
		Dispatch: dispatch,
		Token:    token,
		Log:      log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	admin := router.Group("/admin", c.requireToken)
	{
		admin.POST("/requests/:id/close", c.closeRequest)
		admin.POST("/requests/:id/reset", c.resetRequest)
	}
}

// requireToken сверяет X-Admin-Token с настроенным токеном
func (c *Controller) requireToken(ctx *gin.Context) {
	token := ctx.GetHeader("X-Admin-Token")
	if c.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(c.Token)) != 1 {
		c.Log.Warn("admin request with bad token rejected",
			"path", ctx.Request.URL.Path,
			"remote_addr", ctx.Request.RemoteAddr,
		)
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ctx.Next()
}

func (c *Controller) closeRequest(ctx *gin.Context) {
	requestID, ok := c.requestID(ctx)
	if !ok {
		return
	}

	request, err := c.Dispatch.Close(ctx.Request.Context(), requestID, "admin")
	c.respond(ctx, request, err, "close")
}

func (c *Controller) resetRequest(ctx *gin.Context) {
	requestID, ok := c.requestID(ctx)
	if !ok {
		return
	}

	request, err := c.Dispatch.Reset(ctx.Request.Context(), requestID, "admin")
	c.respond(ctx, request, err, "reset")
}

func (c *Controller) respond(ctx *gin.Context, request *domain.Request, err error, op string) {
	if errors.Is(err, domain.ErrRequestNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if errors.Is(err, domain.ErrStatusConflict) {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":          "status conflict",
			"current_status": request.ClaimStatus,
		})
		return
	}
	if err != nil {
		c.Log.Error("admin operation failed",
			"error", err,
			"operation", op,
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"request": request})
}

func (c *Controller) requestID(ctx *gin.Context) (uuid.UUID, bool) {
	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return uuid.Nil, false
	}
	return requestID, true
}
