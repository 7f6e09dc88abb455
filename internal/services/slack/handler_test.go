package slack

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/persistence"
	portSlack "github.com/admin/slack-bots/dispatch-bot/internal/ports/slack"
	"github.com/admin/slack-bots/dispatch-bot/internal/usecases/dispatch"
)

// fakeRequestRepo in-memory хранилище с условным обновлением под мьютексом.
// failErr эмулирует недоступность хранилища.
type fakeRequestRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*domain.Request
	failErr error
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{rows: make(map[uuid.UUID]*domain.Request)}
}

func copyRequest(r *domain.Request) *domain.Request {
	cp := *r
	return &cp
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *domain.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.rows[request.ID] = copyRequest(request)
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return copyRequest(row), nil
}

func (f *fakeRequestRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}

	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if row.ClaimStatus != expected {
		return copyRequest(row), domain.ErrStatusConflict
	}

	row.ClaimStatus = patch.Status
	row.ClaimedBy = patch.ClaimedBy
	row.ClaimedName = patch.ClaimedName
	row.ClaimedAt = patch.ClaimedAt
	return copyRequest(row), nil
}

func (f *fakeRequestRepo) UpdateStatusIfTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch) (*domain.Request, error) {
	return f.UpdateStatusIf(ctx, id, expected, patch)
}

func (f *fakeRequestRepo) SetNotificationRef(ctx context.Context, id uuid.UUID, channel, ts string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	row.NotificationChannel = &channel
	row.NotificationTS = &ts
	return nil
}

func (f *fakeRequestRepo) ListStaleOpen(ctx context.Context, olderThan time.Time) ([]*domain.Request, error) {
	return nil, nil
}

func (f *fakeRequestRepo) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	return fn(ctx, nil)
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*domain.DirectMessage
}

func (f *fakeMessageRepo) Append(ctx context.Context, message *domain.DirectMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *message
	cp.Seq = int64(len(f.messages) + 1)
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessageRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*domain.DirectMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*domain.DirectMessage
	for _, m := range f.messages {
		if m.RequestID == requestID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

type fakeStatusRepo struct {
	mu       sync.Mutex
	statuses []*domain.Status
}

func (f *fakeStatusRepo) Create(ctx context.Context, status *domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeStatusRepo) CreateTx(ctx context.Context, tx persistence.Transaction, status *domain.Status) error {
	return f.Create(ctx, status)
}

func (f *fakeStatusRepo) GetLatestByObjectID(ctx context.Context, objectType domain.ObjectType, objectID uuid.UUID) (*domain.Status, error) {
	return nil, nil
}

func (f *fakeStatusRepo) count(objectID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.statuses {
		if s.ObjectID == objectID {
			n++
		}
	}
	return n
}

type fakeSlackClient struct {
	mu        sync.Mutex
	posted    int
	updated   int
	ephemeral []string
	views     []any
}

func (f *fakeSlackClient) PostMessage(ctx context.Context, channel, text string, blocks []any) (portSlack.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted++
	return portSlack.MessageRef{Channel: channel, TS: "1700000000.000100"}, nil
}

func (f *fakeSlackClient) UpdateMessage(ctx context.Context, ref portSlack.MessageRef, text string, blocks []any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated++
	return nil
}

func (f *fakeSlackClient) PostThreadReply(ctx context.Context, ref portSlack.MessageRef, text string) error {
	return nil
}

func (f *fakeSlackClient) PostEphemeral(ctx context.Context, channel, user, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ephemeral = append(f.ephemeral, text)
	return nil
}

func (f *fakeSlackClient) OpenView(ctx context.Context, triggerID string, view any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, view)
	return nil
}

// fakeIdentity отвечает фиксированным именем без похода в users.info
type fakeIdentity struct{}

func (fakeIdentity) ResolveDisplayName(ctx context.Context, userID string) string {
	return "Alice"
}

type fixture struct {
	service     *Service
	requestRepo *fakeRequestRepo
	statusRepo  *fakeStatusRepo
	slack       *fakeSlackClient
}

func newFixture() *fixture {
	requestRepo := newFakeRequestRepo()
	statusRepo := &fakeStatusRepo{}
	client := &fakeSlackClient{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	dispatchSvc := dispatch.New(
		requestRepo,
		&fakeMessageRepo{},
		statusRepo,
		client,
		nil,
		nil,
		"C0123456789",
		"https://dispatch.example.com",
		log,
	)

	return &fixture{
		service:     New(dispatchSvc, client, fakeIdentity{}, log),
		requestRepo: requestRepo,
		statusRepo:  statusRepo,
		slack:       client,
	}
}

func (f *fixture) seedOpenRequest() *domain.Request {
	company := "Acme BV"
	channel := "C0123456789"
	ts := "1700000000.000100"

	request := &domain.Request{
		ID:                  uuid.New(),
		Company:             &company,
		ClaimStatus:         domain.ClaimStatusOpen,
		NotificationChannel: &channel,
		NotificationTS:      &ts,
		CreatedAt:           time.Now(),
	}
	_ = f.requestRepo.Create(context.Background(), request)
	return request
}

func blockAction(actionID, requestID string) *domain.Interaction {
	return &domain.Interaction{
		Type:    domain.InteractionTypeBlockActions,
		User:    &domain.SlackUser{ID: "U111"},
		Channel: &domain.SlackChannel{ID: "C0123456789"},
		Actions: []domain.Action{{ActionID: actionID, Value: requestID}},
	}
}

func TestClaimCallback(t *testing.T) {
	f := newFixture()
	request := f.seedOpenRequest()

	err := f.service.HandleInteraction(context.Background(), blockAction(domain.ActionClaimRequest, request.ID.String()))
	require.NoError(t, err)

	stored, err := f.requestRepo.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusClaimed, stored.ClaimStatus)
	assert.Equal(t, "U111", *stored.ClaimedBy)
	assert.Equal(t, 1, f.slack.updated)
	assert.Empty(t, f.slack.ephemeral)
}

func TestRedeliveredProgressCallbackConverges(t *testing.T) {
	f := newFixture()
	request := f.seedOpenRequest()
	interaction := blockAction(domain.ActionSetStatusProgress, request.ID.String())

	// повторная доставка того же callback не даёт второго перехода,
	// второй обработки карточки и лишней записи аудита
	require.NoError(t, f.service.HandleInteraction(context.Background(), interaction))
	require.NoError(t, f.service.HandleInteraction(context.Background(), interaction))

	stored, err := f.requestRepo.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusInProgress, stored.ClaimStatus)
	assert.Equal(t, "U111", *stored.ClaimedBy)
	assert.Equal(t, 1, f.slack.updated)
	assert.Equal(t, 1, f.statusRepo.count(request.ID))
	assert.Empty(t, f.slack.ephemeral)
}

func TestClaimTransientFailureNotifiesAgent(t *testing.T) {
	f := newFixture()
	request := f.seedOpenRequest()
	f.requestRepo.failErr = context.DeadlineExceeded

	err := f.service.HandleInteraction(context.Background(), blockAction(domain.ActionClaimRequest, request.ID.String()))
	require.Error(t, err)

	require.Len(t, f.slack.ephemeral, 1)
	assert.Equal(t, "Something went wrong, please try again.", f.slack.ephemeral[0])
}

func TestAdvanceTransientFailureNotifiesAgent(t *testing.T) {
	f := newFixture()
	request := f.seedOpenRequest()
	f.requestRepo.failErr = context.DeadlineExceeded

	err := f.service.HandleInteraction(context.Background(), blockAction(domain.ActionSetStatusProgress, request.ID.String()))
	require.Error(t, err)

	require.Len(t, f.slack.ephemeral, 1)
	assert.Equal(t, "Something went wrong, please try again.", f.slack.ephemeral[0])
}

func TestReplySubmitTransientFailureNotifiesAgent(t *testing.T) {
	f := newFixture()
	request := f.seedOpenRequest()
	f.requestRepo.failErr = context.DeadlineExceeded

	metadata, err := json.Marshal(domain.ViewMetadata{
		RequestID: request.ID.String(),
		ChannelID: "C0123456789",
	})
	require.NoError(t, err)

	interaction := &domain.Interaction{
		Type: domain.InteractionTypeViewSubmission,
		User: &domain.SlackUser{ID: "U111"},
		View: &domain.View{
			CallbackID:      domain.CallbackReplySubmit,
			PrivateMetadata: string(metadata),
			State: domain.ViewState{
				Values: map[string]map[string]domain.ViewStateValue{
					domain.ReplyBlockID: {domain.ReplyActionID: {Value: "We are on our way"}},
				},
			},
		},
	}

	err = f.service.HandleInteraction(context.Background(), interaction)
	require.Error(t, err)

	require.Len(t, f.slack.ephemeral, 1)
	assert.Equal(t, "Something went wrong, please try again.", f.slack.ephemeral[0])
}

func TestReplyButtonOpensModal(t *testing.T) {
	f := newFixture()
	request := f.seedOpenRequest()

	interaction := blockAction(domain.ActionReplyToCustomer, request.ID.String())
	interaction.TriggerID = "trigger-1"

	require.NoError(t, f.service.HandleInteraction(context.Background(), interaction))
	assert.Len(t, f.slack.views, 1)
}
