package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/admin/slack-bots/dispatch-bot/internal/ports/repository"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
)

const openRequestReminderName = "open-request-reminder"

// OpenRequestReminder джоба-напоминание о заявках, которые долго висят
// без владельца. Шлёт алерт в служебный канал, сами заявки не трогает.
type OpenRequestReminder struct {
	requestRepo    repository.IRequestRepo
	alerterService service.IAlerterService
	maxAge         time.Duration
	interval       time.Duration
	log            *slog.Logger
}

func NewOpenRequestReminder(
	requestRepo repository.IRequestRepo,
	alerterService service.IAlerterService,
	maxAge time.Duration,
	interval time.Duration,
	log *slog.Logger,
) *OpenRequestReminder {
	if maxAge <= 0 {
		maxAge = 30 * time.Minute
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &OpenRequestReminder{
		requestRepo:    requestRepo,
		alerterService: alerterService,
		maxAge:         maxAge,
		interval:       interval,
		log:            log,
	}
}

func (j *OpenRequestReminder) Name() string {
	return openRequestReminderName
}

// NextRun каждые interval от текущего момента
func (j *OpenRequestReminder) NextRun(now time.Time) time.Time {
	return now.Add(j.interval)
}

// Run ищет незаклеймленные заявки старше maxAge и алертит по ним
func (j *OpenRequestReminder) Run(ctx context.Context) error {
	olderThan := time.Now().Add(-j.maxAge)

	stale, err := j.requestRepo.ListStaleOpen(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("failed to list stale open requests: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	j.log.Info("stale open requests found",
		"count", len(stale),
		"max_age", j.maxAge,
	)

	if j.alerterService == nil {
		return nil
	}

	var lines []string
	for _, request := range stale {
		company := "unknown company"
		if request.Company != nil {
			company = *request.Company
		}
		lines = append(lines, fmt.Sprintf("%s (%s, waiting since %s)",
			request.ID, company, request.CreatedAt.Format("15:04 MST")))
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf(":hourglass: %d request(s) still unclaimed after %s\n\n", len(stale), j.maxAge))
	message.WriteString(strings.Join(lines, "\n"))

	if err := j.alerterService.SendAlert(ctx, message.String()); err != nil {
		return fmt.Errorf("failed to send stale open requests alert: %w", err)
	}

	return nil
}
