package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"log/slog"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"

	kafkaPorts "github.com/admin/slack-bots/dispatch-bot/internal/ports/kafka"
	servicePorts "github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
)

// IntakeRequestHandler обрабатывает intake-события из внешних форм
type IntakeRequestHandler struct {
	Dispatch servicePorts.IDispatchService
	Log      *slog.Logger
}

// NewIntakeRequestHandler создаёт новый handler intake-событий
func NewIntakeRequestHandler(dispatch servicePorts.IDispatchService, log *slog.Logger) kafkaPorts.MessageHandler {
	return &IntakeRequestHandler{
		Dispatch: dispatch,
		Log:      log,
	}
}

// IntakeRequestMessage структура intake-события
type IntakeRequestMessage struct {
	Company       string `json:"company"`
	Contact       string `json:"contact"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	City          string `json:"city"`
	When          string `json:"when"`
	Message       string `json:"message"`
	People        int    `json:"people"`
	HoursEstimate int    `json:"hours_estimate"`
}

// HandleMessage создаёт заявку из intake-события
func (h *IntakeRequestHandler) HandleMessage(ctx context.Context, key string, value []byte) error {
	var msg IntakeRequestMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal intake request: %w", err)
	}

	if msg.Company == "" || msg.Contact == "" || msg.Email == "" {
		h.Log.Warn("intake event missing required fields", "key", key)
		return domain.WrapBusinessError(errors.New("intake request missing required fields"))
	}

	intake := &domain.Intake{
		Company:       msg.Company,
		Contact:       msg.Contact,
		Email:         msg.Email,
		Phone:         msg.Phone,
		City:          msg.City,
		When:          msg.When,
		Message:       msg.Message,
		People:        msg.People,
		HoursEstimate: msg.HoursEstimate,
	}
	intake.Normalize()

	request, err := h.Dispatch.CreateRequest(ctx, intake)
	if err != nil {
		return fmt.Errorf("failed to create request from intake event: %w", err)
	}

	h.Log.Debug("intake event processed",
		"key", key,
		"request_id", request.ID,
	)

	return nil
}
