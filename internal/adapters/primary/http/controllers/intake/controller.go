package intake

import (
	"net/http"
	"regexp"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

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
	router.POST("/intake", c.handleIntake)
}

// IntakeRequest форма срочной заявки с сайта
type IntakeRequest struct {
	Company       string `json:"company"`
	Contact       string `json:"contact"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	City          string `json:"city"`
	When          string `json:"when"`
	Message       string `json:"message"`
	People        int    `json:"people"`
	HoursEstimate int    `json:"hours_estimate"`

	// Honeypot: скрытое поле формы, люди его не заполняют
	Website string `json:"website"`
}

// IntakeResponse ответ формы
type IntakeResponse struct {
	OK        bool   `json:"ok"`
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (c *Controller) handleIntake(ctx *gin.Context) {
	var req IntakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.Log.Warn("failed to bind intake request", "error", err)
		ctx.JSON(http.StatusBadRequest, IntakeResponse{Error: "invalid request"})
		return
	}

	// Ботам отвечаем успехом, заявку не создаём
	if req.Website != "" {
		c.Log.Debug("honeypot tripped, intake dropped",
			"remote_addr", ctx.Request.RemoteAddr,
		)
		ctx.JSON(http.StatusOK, IntakeResponse{OK: true})
		return
	}

	if req.Company == "" || req.Contact == "" || req.Email == "" {
		ctx.JSON(http.StatusBadRequest, IntakeResponse{Error: "company/contact/email required"})
		return
	}
	if !emailRe.MatchString(req.Email) {
		ctx.JSON(http.StatusBadRequest, IntakeResponse{Error: "invalid_email"})
		return
	}

	intake := &domain.Intake{
		Company:       req.Company,
		Contact:       req.Contact,
		Email:         req.Email,
		Phone:         req.Phone,
		City:          req.City,
		When:          req.When,
		Message:       req.Message,
		People:        req.People,
		HoursEstimate: req.HoursEstimate,
	}
	intake.Normalize()

	request, err := c.Dispatch.CreateRequest(ctx.Request.Context(), intake)
	if err != nil {
		c.Log.Error("failed to create request from intake form", "error", err)
		ctx.JSON(http.StatusInternalServerError, IntakeResponse{Error: "failed to create request"})
		return
	}

	ctx.JSON(http.StatusOK, IntakeResponse{OK: true, RequestID: request.ID.String()})
}
