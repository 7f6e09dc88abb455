package blocks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

const dashboardBase = "https://dispatch.example.com"

func sampleRequest(status domain.ClaimStatus) *domain.Request {
	company := "Acme BV"
	contact := "Jan Jansen"
	email := "jan@acme.example"
	city := "Rotterdam"
	people := 3

	request := &domain.Request{
		ID:          uuid.MustParse("6f1c7a36-6c1e-4e6c-8a2d-9f0b1c2d3e4f"),
		Company:     &company,
		Contact:     &contact,
		Email:       &email,
		City:        &city,
		People:      &people,
		ClaimStatus: status,
		CreatedAt:   time.Now(),
	}
	if status != domain.ClaimStatusOpen {
		name := "Alice"
		id := "U111"
		request.ClaimedBy = &id
		request.ClaimedName = &name
	}
	return request
}

// собирает action_id всех кнопок карточки
func actionIDs(t *testing.T, rendered []any) []string {
	t.Helper()
	var ids []string
	for _, block := range rendered {
		actions, ok := block.(ActionsBlock)
		if !ok {
			continue
		}
		for _, el := range actions.Elements {
			button, ok := el.(Button)
			require.True(t, ok)
			ids = append(ids, button.ActionID)
		}
	}
	return ids
}

func TestRenderRequestDeterministic(t *testing.T) {
	request := sampleRequest(domain.ClaimStatusOpen)

	first, err := json.Marshal(RenderRequest(request, dashboardBase))
	require.NoError(t, err)
	second, err := json.Marshal(RenderRequest(request, dashboardBase))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestRenderOpenRequestActions(t *testing.T) {
	rendered := RenderRequest(sampleRequest(domain.ClaimStatusOpen), dashboardBase)

	assert.Equal(t, []string{
		domain.ActionClaimRequest,
		domain.ActionOpenDashboard,
	}, actionIDs(t, rendered))
}

func TestRenderNonOpenRequestActionsDashboardOnly(t *testing.T) {
	// после клейма карточка теряет кнопки мутаций, остаётся один дашборд
	for _, status := range []domain.ClaimStatus{
		domain.ClaimStatusClaimed,
		domain.ClaimStatusInProgress,
		domain.ClaimStatusClosed,
	} {
		rendered := RenderRequest(sampleRequest(status), dashboardBase)

		assert.Equal(t, []string{domain.ActionOpenDashboard}, actionIDs(t, rendered), "status %s", status)
	}
}

func TestRenderShowsClaimOwner(t *testing.T) {
	rendered, err := json.Marshal(RenderRequest(sampleRequest(domain.ClaimStatusClaimed), dashboardBase))
	require.NoError(t, err)

	assert.Contains(t, string(rendered), "*Claimed by:* Alice")
}

func TestRenderMissingFieldsUsePlaceholders(t *testing.T) {
	request := &domain.Request{
		ID:          uuid.New(),
		ClaimStatus: domain.ClaimStatusOpen,
	}

	rendered, err := json.Marshal(RenderRequest(request, dashboardBase))
	require.NoError(t, err)

	// пустой when подменяется на ASAP, остальные поля на прочерк
	assert.Contains(t, string(rendered), "*When:*\\nASAP")
	assert.Contains(t, string(rendered), "*Company:*\\n—")
}

func TestRenderTrailingIDContext(t *testing.T) {
	request := sampleRequest(domain.ClaimStatusOpen)
	rendered := RenderRequest(request, dashboardBase)

	last, ok := rendered[len(rendered)-1].(ContextBlock)
	require.True(t, ok)
	require.Len(t, last.Elements, 1)
	assert.Equal(t, "ID: `"+request.ID.String()+"`", last.Elements[0].Text)
}

func TestDashboardURL(t *testing.T) {
	assert.Equal(t,
		"https://dispatch.example.com/dashboard/requests/abc?role=agent",
		DashboardURL(dashboardBase, "abc"),
	)
}

func TestFallbackText(t *testing.T) {
	request := sampleRequest(domain.ClaimStatusOpen)
	assert.Equal(t, "Urgent request — Acme BV (Rotterdam)", FallbackText(request))
}

func TestReplyModalMetadataRoundTrip(t *testing.T) {
	modal, err := ReplyModal("req-1", "C0123456789")
	require.NoError(t, err)

	assert.Equal(t, domain.CallbackReplySubmit, modal.CallbackID)

	var metadata domain.ViewMetadata
	require.NoError(t, json.Unmarshal([]byte(modal.PrivateMetadata), &metadata))
	assert.Equal(t, "req-1", metadata.RequestID)
	assert.Equal(t, "C0123456789", metadata.ChannelID)
}
