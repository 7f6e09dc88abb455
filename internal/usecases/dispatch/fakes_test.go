package dispatch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/persistence"
	portSlack "github.com/admin/slack-bots/dispatch-bot/internal/ports/slack"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRequestRepo хранит заявки в памяти, условное обновление атомарно
// под мьютексом, как UPDATE ... WHERE в БД
type fakeRequestRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.Request
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
	f.rows[request.ID] = copyRequest(request)
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return copyRequest(row), nil
}

func (f *fakeRequestRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

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
	f.mu.Lock()
	defer f.mu.Unlock()
	var stale []*domain.Request
	for _, row := range f.rows {
		if row.ClaimStatus == domain.ClaimStatusOpen && row.CreatedAt.Before(olderThan) {
			stale = append(stale, copyRequest(row))
		}
	}
	return stale, nil
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
	message.Seq = cp.Seq
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
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.statuses) - 1; i >= 0; i-- {
		if f.statuses[i].ObjectType == objectType && f.statuses[i].ObjectID == objectID {
			return f.statuses[i], nil
		}
	}
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

// fakeSlackClient записывает вызовы Web API
type fakeSlackClient struct {
	mu        sync.Mutex
	posted    int
	updated   int
	threaded  []string
	ephemeral []string
	views     []any
}

func (f *fakeSlackClient) PostMessage(ctx context.Context, channel, text string, blocks []any) (portSlack.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted++
	return portSlack.MessageRef{Channel: channel, TS: fmt.Sprintf("170000000%d.000100", f.posted)}, nil
}

func (f *fakeSlackClient) UpdateMessage(ctx context.Context, ref portSlack.MessageRef, text string, blocks []any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated++
	return nil
}

func (f *fakeSlackClient) PostThreadReply(ctx context.Context, ref portSlack.MessageRef, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threaded = append(f.threaded, text)
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

type fixture struct {
	service     *Service
	requestRepo *fakeRequestRepo
	messageRepo *fakeMessageRepo
	statusRepo  *fakeStatusRepo
	slack       *fakeSlackClient
}

func newFixture() *fixture {
	requestRepo := newFakeRequestRepo()
	messageRepo := &fakeMessageRepo{}
	statusRepo := &fakeStatusRepo{}
	slack := &fakeSlackClient{}

	service := New(
		requestRepo,
		messageRepo,
		statusRepo,
		slack,
		nil,
		nil,
		"C0123456789",
		"https://dispatch.example.com",
		testLogger(),
	)

	return &fixture{
		service:     service,
		requestRepo: requestRepo,
		messageRepo: messageRepo,
		statusRepo:  statusRepo,
		slack:       slack,
	}
}

func (f *fixture) seedRequest(status domain.ClaimStatus, claimedBy, claimedName string) *domain.Request {
	company := "Acme BV"
	contact := "Jan Jansen"
	email := "jan@acme.example"
	channel := "C0123456789"
	ts := "1700000000.000100"

	request := &domain.Request{
		ID:                  uuid.New(),
		Company:             &company,
		Contact:             &contact,
		Email:               &email,
		ClaimStatus:         status,
		NotificationChannel: &channel,
		NotificationTS:      &ts,
		CreatedAt:           time.Now(),
	}
	if claimedBy != "" {
		now := time.Now()
		request.ClaimedBy = &claimedBy
		request.ClaimedName = &claimedName
		request.ClaimedAt = &now
	}

	_ = f.requestRepo.Create(context.Background(), request)
	return request
}
