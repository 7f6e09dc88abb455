package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/persistence"
)

// Claim назначает открытую заявку агенту. Гонку за заявку выигрывает ровно
// один вызов: условное обновление проходит только из статуса open.
// Проигравший получает Won=false и актуальную строку с победителем.
func (s *Service) Claim(ctx context.Context, requestID uuid.UUID, actorID, displayName string) (*domain.ClaimResult, error) {
	now := time.Now()
	patch := domain.ClaimPatch{
		Status:      domain.ClaimStatusClaimed,
		ClaimedBy:   &actorID,
		ClaimedName: &displayName,
		ClaimedAt:   &now,
	}

	updated, err := s.transition(ctx, requestID, domain.ClaimStatusOpen, patch, actorID)
	if errors.Is(err, domain.ErrStatusConflict) {
		s.Log.Info("claim lost to another agent",
			"request_id", requestID,
			"agent_id", actorID,
			"current_status", updated.ClaimStatus,
		)
		return &domain.ClaimResult{Request: updated, Won: false}, nil
	}
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, domain.EventRequestClaimed, updated)
	s.refreshCard(ctx, updated)

	s.Log.Info("request claimed",
		"request_id", requestID,
		"agent_id", actorID,
	)

	return &domain.ClaimResult{Request: updated, Won: true}, nil
}

// AdvanceStatus двигает статус строго вперёд. Открытую заявку при этом
// клеймит на вызывающего агента тем же условным обновлением: кнопка
// "Start work" на свежей карточке работает и без отдельного клейма.
// Заявка уже в target - идемпотентный no-op.
func (s *Service) AdvanceStatus(ctx context.Context, requestID uuid.UUID, actorID, displayName string, target domain.ClaimStatus) (*domain.Request, error) {
	if target != domain.ClaimStatusClaimed && target != domain.ClaimStatusInProgress {
		return nil, fmt.Errorf("invalid advance target: %s", target)
	}

	current, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Две попытки: первая может проиграть гонку клейма, вторая идёт
	// от состояния победителя уже без смены владельца.
	for attempt := 0; attempt < 2; attempt++ {
		if current.ClaimStatus == target {
			return current, nil
		}
		if !current.ClaimStatus.CanAdvanceTo(target) {
			return current, domain.ErrStatusConflict
		}

		patch := domain.ClaimPatch{
			Status:      target,
			ClaimedBy:   current.ClaimedBy,
			ClaimedName: current.ClaimedName,
			ClaimedAt:   current.ClaimedAt,
		}
		if current.ClaimStatus == domain.ClaimStatusOpen {
			now := time.Now()
			patch.ClaimedBy = &actorID
			patch.ClaimedName = &displayName
			patch.ClaimedAt = &now
		}

		updated, err := s.transition(ctx, requestID, current.ClaimStatus, patch, actorID)
		if errors.Is(err, domain.ErrStatusConflict) {
			current = updated
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publishEvent(ctx, domain.EventStatusAdvanced, updated)
		s.refreshCard(ctx, updated)

		s.Log.Info("request status advanced",
			"request_id", requestID,
			"agent_id", actorID,
			"status", target,
		)

		return updated, nil
	}

	return current, domain.ErrStatusConflict
}

// Close переводит заявку в терминальный closed. Административная операция:
// закрыть можно только заявку с владельцем, открытую сначала сбрасывают
// или клеймят.
func (s *Service) Close(ctx context.Context, requestID uuid.UUID, actorID string) (*domain.Request, error) {
	current, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if current.ClaimStatus == domain.ClaimStatusClosed {
		return current, nil
	}
	if current.ClaimStatus == domain.ClaimStatusOpen {
		return current, domain.ErrStatusConflict
	}

	patch := domain.ClaimPatch{
		Status:      domain.ClaimStatusClosed,
		ClaimedBy:   current.ClaimedBy,
		ClaimedName: current.ClaimedName,
		ClaimedAt:   current.ClaimedAt,
	}

	updated, err := s.transition(ctx, requestID, current.ClaimStatus, patch, actorID)
	if err != nil {
		return updated, err
	}

	s.publishEvent(ctx, domain.EventRequestClosed, updated)
	s.refreshCard(ctx, updated)

	s.Log.Info("request closed",
		"request_id", requestID,
		"actor_id", actorID,
	)

	return updated, nil
}

// Reset возвращает заявку в open, снимая владельца. Единственный
// разрешённый переход назад, только для административного вмешательства.
func (s *Service) Reset(ctx context.Context, requestID uuid.UUID, actorID string) (*domain.Request, error) {
	current, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if current.ClaimStatus == domain.ClaimStatusOpen {
		return current, nil
	}

	patch := domain.ClaimPatch{
		Status: domain.ClaimStatusOpen,
	}

	updated, err := s.transition(ctx, requestID, current.ClaimStatus, patch, actorID)
	if err != nil {
		return updated, err
	}

	s.publishEvent(ctx, domain.EventRequestReset, updated)
	s.refreshCard(ctx, updated)

	s.Log.Info("request reset to open",
		"request_id", requestID,
		"actor_id", actorID,
	)

	return updated, nil
}

// transition выполняет условное обновление статуса и запись аудита в одной
// транзакции. При конфликте возвращает актуальную строку и ErrStatusConflict,
// откат при этом ничего не теряет: запись аудита ещё не была видна.
func (s *Service) transition(ctx context.Context, requestID uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch, actorID string) (*domain.Request, error) {
	var updated *domain.Request

	err := s.RequestRepo.WithTransaction(ctx, func(txCtx context.Context, tx persistence.Transaction) error {
		row, err := s.RequestRepo.UpdateStatusIfTx(txCtx, tx, requestID, expected, patch)
		updated = row
		if err != nil {
			return err
		}
		return s.StatusRepo.CreateTx(txCtx, tx, domain.NewRequestStatus(requestID, patch.Status, actorID))
	})

	if errors.Is(err, domain.ErrStatusConflict) || errors.Is(err, domain.ErrRequestNotFound) {
		return updated, err
	}
	if err != nil {
		s.Log.Error("failed to update request status",
			"error", err,
			"request_id", requestID,
			"expected_status", expected,
			"target_status", patch.Status,
		)
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	return updated, nil
}
