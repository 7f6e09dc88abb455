package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/usecases/dispatch/blocks"
)

// HandleInteraction основной метод для обработки интерактивных payload
func (s *Service) HandleInteraction(ctx context.Context, interaction *domain.Interaction) error {
	if interaction == nil {
		return fmt.Errorf("interaction is nil")
	}

	switch interaction.Type {
	case domain.InteractionTypeBlockActions:
		return s.handleBlockActions(ctx, interaction)
	case domain.InteractionTypeViewSubmission:
		return s.handleViewSubmission(ctx, interaction)
	}

	s.Log.Debug("ignoring interaction of unknown type", "type", interaction.Type)
	return nil
}

// handleBlockActions обрабатывает нажатие кнопки карточки - роутинг по action_id
func (s *Service) handleBlockActions(ctx context.Context, interaction *domain.Interaction) error {
	if interaction.User == nil || len(interaction.Actions) == 0 {
		return fmt.Errorf("block_actions payload is incomplete")
	}

	action := interaction.Actions[0]

	if action.ActionID == domain.ActionOpenDashboard {
		// Кнопка с url, Slack открывает её сам
		return nil
	}

	requestID, err := uuid.Parse(action.Value)
	if err != nil {
		return fmt.Errorf("invalid request id in action value %q: %w", action.Value, err)
	}

	actorID := interaction.User.ID

	switch action.ActionID {
	case domain.ActionClaimRequest:
		return s.handleClaim(ctx, interaction, requestID, actorID)
	case domain.ActionSetStatusProgress:
		return s.handleAdvance(ctx, interaction, requestID, actorID)
	case domain.ActionReplyToCustomer:
		return s.handleReplyButton(ctx, interaction, requestID)
	}

	s.Log.Debug("ignoring unknown action",
		"action_id", action.ActionID,
		"request_id", requestID,
	)
	return nil
}

// handleClaim агент пытается забрать заявку
func (s *Service) handleClaim(ctx context.Context, interaction *domain.Interaction, requestID uuid.UUID, actorID string) error {
	displayName := s.Identity.ResolveDisplayName(ctx, actorID)

	result, err := s.Dispatch.Claim(ctx, requestID, actorID, displayName)
	if errors.Is(err, domain.ErrRequestNotFound) {
		s.notify(ctx, interaction, "This request no longer exists.")
		return nil
	}
	if err != nil {
		s.notify(ctx, interaction, transientFailureText)
		return fmt.Errorf("failed to claim request %s: %w", requestID, err)
	}

	if !result.Won {
		owner := "another agent"
		if result.Request.ClaimedName != nil {
			owner = *result.Request.ClaimedName
		}
		s.notify(ctx, interaction, fmt.Sprintf("Too late, already claimed by %s.", owner))
		return nil
	}

	s.Log.Info("request claimed",
		"request_id", requestID,
		"agent_id", actorID,
	)
	return nil
}

// handleAdvance агент переводит заявку в работу
func (s *Service) handleAdvance(ctx context.Context, interaction *domain.Interaction, requestID uuid.UUID, actorID string) error {
	displayName := s.Identity.ResolveDisplayName(ctx, actorID)

	_, err := s.Dispatch.AdvanceStatus(ctx, requestID, actorID, displayName, domain.ClaimStatusInProgress)
	if errors.Is(err, domain.ErrRequestNotFound) {
		s.notify(ctx, interaction, "This request no longer exists.")
		return nil
	}
	if errors.Is(err, domain.ErrStatusConflict) {
		s.notify(ctx, interaction, "Request status changed in the meantime, check the card.")
		return nil
	}
	if err != nil {
		s.notify(ctx, interaction, transientFailureText)
		return fmt.Errorf("failed to advance request %s: %w", requestID, err)
	}

	s.Log.Info("request moved to in_progress",
		"request_id", requestID,
		"agent_id", actorID,
	)
	return nil
}

// handleReplyButton открывает модалку ответа клиенту
func (s *Service) handleReplyButton(ctx context.Context, interaction *domain.Interaction, requestID uuid.UUID) error {
	channelID := ""
	if interaction.Channel != nil {
		channelID = interaction.Channel.ID
	}

	modal, err := blocks.ReplyModal(requestID.String(), channelID)
	if err != nil {
		return fmt.Errorf("failed to build reply modal: %w", err)
	}

	if err := s.Client.OpenView(ctx, interaction.TriggerID, modal); err != nil {
		return fmt.Errorf("failed to open reply modal: %w", err)
	}

	return nil
}

// handleViewSubmission обрабатывает сабмит модалки ответа клиенту
func (s *Service) handleViewSubmission(ctx context.Context, interaction *domain.Interaction) error {
	if interaction.User == nil || interaction.View == nil {
		return fmt.Errorf("view_submission payload is incomplete")
	}

	if interaction.View.CallbackID != domain.CallbackReplySubmit {
		s.Log.Debug("ignoring unknown view callback", "callback_id", interaction.View.CallbackID)
		return nil
	}

	var metadata domain.ViewMetadata
	if err := json.Unmarshal([]byte(interaction.View.PrivateMetadata), &metadata); err != nil {
		return fmt.Errorf("failed to parse view metadata: %w", err)
	}

	requestID, err := uuid.Parse(metadata.RequestID)
	if err != nil {
		return fmt.Errorf("invalid request id in view metadata %q: %w", metadata.RequestID, err)
	}

	body := interaction.View.ReplyText()
	if body == "" {
		s.Log.Debug("empty reply submitted, ignoring", "request_id", requestID)
		return nil
	}

	actorID := interaction.User.ID
	displayName := s.Identity.ResolveDisplayName(ctx, actorID)

	if _, err := s.Dispatch.SendAsAgent(ctx, requestID, actorID, displayName, body); err != nil {
		if metadata.ChannelID != "" {
			s.notifyChannel(ctx, metadata.ChannelID, actorID, transientFailureText)
		}
		return fmt.Errorf("failed to send agent reply for request %s: %w", requestID, err)
	}

	if metadata.ChannelID != "" {
		s.notifyChannel(ctx, metadata.ChannelID, actorID, "Message sent to the customer.")
	}

	return nil
}

// Текст для агента при временной ошибке хранилища или платформы
const transientFailureText = "Something went wrong, please try again."

// notify шлёт действующему агенту эфемерное сообщение в канал карточки.
// Ошибка доставки не влияет на исход операции.
func (s *Service) notify(ctx context.Context, interaction *domain.Interaction, text string) {
	if interaction.Channel == nil || interaction.User == nil {
		return
	}

	s.notifyChannel(ctx, interaction.Channel.ID, interaction.User.ID, text)
}

func (s *Service) notifyChannel(ctx context.Context, channelID, userID, text string) {
	if err := s.Client.PostEphemeral(ctx, channelID, userID, text); err != nil {
		s.Log.Warn("failed to send ephemeral notification",
			"error", err,
			"channel", channelID,
			"user", userID,
		)
	}
}
