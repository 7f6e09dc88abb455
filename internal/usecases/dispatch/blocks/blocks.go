// Package blocks собирает Block Kit разметку карточки заявки.
// дока - https://api.slack.com/block-kit
package blocks

import (
	"fmt"
	"strconv"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

// Text текстовый объект Block Kit (plain_text или mrkdwn)
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func mrkdwn(text string) *Text {
	return &Text{Type: "mrkdwn", Text: text}
}

func plain(text string) *Text {
	return &Text{Type: "plain_text", Text: text}
}

type HeaderBlock struct {
	Type string `json:"type"`
	Text *Text  `json:"text"`
}

type SectionBlock struct {
	Type   string  `json:"type"`
	Text   *Text   `json:"text,omitempty"`
	Fields []*Text `json:"fields,omitempty"`
}

type DividerBlock struct {
	Type string `json:"type"`
}

type ContextBlock struct {
	Type     string  `json:"type"`
	Elements []*Text `json:"elements"`
}

type Button struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text"`
	Style    string `json:"style,omitempty"`
	ActionID string `json:"action_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Value    string `json:"value,omitempty"`
}

type ActionsBlock struct {
	Type     string `json:"type"`
	Elements []any  `json:"elements"`
}

const placeholder = "—"

func safe(v *string) string {
	if v == nil || *v == "" {
		return placeholder
	}
	return *v
}

func safeOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func safeInt(v *int) string {
	if v == nil {
		return placeholder
	}
	return strconv.Itoa(*v)
}

// DashboardURL ссылка на заявку в дашборде агентов
func DashboardURL(baseURL string, id string) string {
	return fmt.Sprintf("%s/dashboard/requests/%s?role=agent", baseURL, id)
}

// FallbackText однострочный текст карточки для пушей и клиентов без Block Kit
func FallbackText(request *domain.Request) string {
	return fmt.Sprintf("Urgent request — %s (%s)", safe(request.Company), safe(request.City))
}

// RenderRequest собирает карточку заявки. Набор кнопок зависит от статуса:
// открытую заявку можно заклеймить, у чужой остаётся только дашборд.
// Разметка детерминирована, чтобы chat.update переписывал карточку байт в байт.
func RenderRequest(request *domain.Request, dashboardBaseURL string) []any {
	id := request.ID.String()

	result := []any{
		HeaderBlock{
			Type: "header",
			Text: plain(":rotating_light: Urgent dispatch request"),
		},
		SectionBlock{
			Type: "section",
			Fields: []*Text{
				mrkdwn("*Company:*\n" + safe(request.Company)),
				mrkdwn("*Contact:*\n" + safe(request.Contact)),
				mrkdwn("*Email:*\n" + safe(request.Email)),
				mrkdwn("*Phone:*\n" + safe(request.Phone)),
				mrkdwn("*City:*\n" + safe(request.City)),
				mrkdwn("*When:*\n" + safeOr(request.When, "ASAP")),
			},
		},
		SectionBlock{
			Type: "section",
			Fields: []*Text{
				mrkdwn("*People:*\n" + safeInt(request.People)),
				mrkdwn("*Hours (estimate):*\n" + safeInt(request.HoursEstimate)),
			},
		},
	}

	if request.Message != nil && *request.Message != "" {
		result = append(result, SectionBlock{
			Type: "section",
			Text: mrkdwn("*Details:*\n" + *request.Message),
		})
	}

	statusLine := "*Status:* " + request.ClaimStatus.String()
	if request.ClaimStatus != domain.ClaimStatusOpen && request.ClaimedName != nil {
		statusLine += " • *Claimed by:* " + *request.ClaimedName
	}

	result = append(result,
		DividerBlock{Type: "divider"},
		ContextBlock{
			Type:     "context",
			Elements: []*Text{mrkdwn(statusLine)},
		},
	)

	if actions := renderActions(request, dashboardBaseURL, id); actions != nil {
		result = append(result, *actions)
	}

	result = append(result, ContextBlock{
		Type:     "context",
		Elements: []*Text{mrkdwn("ID: `" + id + "`")},
	})

	return result
}

func renderActions(request *domain.Request, dashboardBaseURL, id string) *ActionsBlock {
	dashboard := Button{
		Type:     "button",
		Text:     plain("Open dashboard"),
		ActionID: domain.ActionOpenDashboard,
		URL:      DashboardURL(dashboardBaseURL, id),
		Value:    id,
	}

	// Кнопки мутаций есть только у открытой карточки. После клейма
	// остаётся один дашборд: повторные и конкурирующие нажатия по
	// уже взятой заявке исключены на уровне разметки.
	if request.ClaimStatus != domain.ClaimStatusOpen {
		return &ActionsBlock{Type: "actions", Elements: []any{dashboard}}
	}

	return &ActionsBlock{Type: "actions", Elements: []any{
		Button{
			Type:     "button",
			Text:     plain(":white_check_mark: Claim request"),
			Style:    "primary",
			ActionID: domain.ActionClaimRequest,
			Value:    id,
		},
		dashboard,
	}}
}
