package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

type fakeDispatch struct {
	created []*domain.Intake
}

func (f *fakeDispatch) CreateRequest(ctx context.Context, intake *domain.Intake) (*domain.Request, error) {
	f.created = append(f.created, intake)
	return &domain.Request{ID: uuid.New(), ClaimStatus: domain.ClaimStatusOpen}, nil
}

func (f *fakeDispatch) Claim(ctx context.Context, requestID uuid.UUID, actorID, displayName string) (*domain.ClaimResult, error) {
	return nil, nil
}

func (f *fakeDispatch) AdvanceStatus(ctx context.Context, requestID uuid.UUID, actorID, displayName string, target domain.ClaimStatus) (*domain.Request, error) {
	return nil, nil
}

func (f *fakeDispatch) Close(ctx context.Context, requestID uuid.UUID, actorID string) (*domain.Request, error) {
	return nil, nil
}

func (f *fakeDispatch) Reset(ctx context.Context, requestID uuid.UUID, actorID string) (*domain.Request, error) {
	return nil, nil
}

func (f *fakeDispatch) SendAsCustomer(ctx context.Context, requestID uuid.UUID, body, senderName string) (*domain.DirectMessage, error) {
	return nil, nil
}

func (f *fakeDispatch) SendAsAgent(ctx context.Context, requestID uuid.UUID, actorID, displayName, body string) (*domain.DirectMessage, error) {
	return nil, nil
}

func (f *fakeDispatch) ListMessages(ctx context.Context, requestID uuid.UUID) ([]*domain.DirectMessage, error) {
	return nil, nil
}

func setupRouter(dispatch *fakeDispatch) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(dispatch, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(router)
	return router
}

func postIntake(t *testing.T, router *gin.Engine, body map[string]any) (*httptest.ResponseRecorder, IntakeResponse) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/intake", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var response IntakeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestIntakeCreatesRequest(t *testing.T) {
	dispatch := &fakeDispatch{}
	router := setupRouter(dispatch)

	w, response := postIntake(t, router, map[string]any{
		"company": "Acme BV",
		"contact": "Jan Jansen",
		"email":   "jan@acme.example",
		"people":  3,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.OK)
	assert.NotEmpty(t, response.RequestID)

	require.Len(t, dispatch.created, 1)
	assert.Equal(t, 3, dispatch.created[0].People)
	assert.Equal(t, domain.DefaultHours, dispatch.created[0].HoursEstimate)
}

func TestIntakeHoneypotDropsSilently(t *testing.T) {
	dispatch := &fakeDispatch{}
	router := setupRouter(dispatch)

	w, response := postIntake(t, router, map[string]any{
		"company": "Acme BV",
		"contact": "Jan Jansen",
		"email":   "jan@acme.example",
		"website": "https://spam.example",
	})

	// боту отвечаем успехом, заявка не создаётся
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.OK)
	assert.Empty(t, response.RequestID)
	assert.Empty(t, dispatch.created)
}

func TestIntakeRequiresCoreFields(t *testing.T) {
	dispatch := &fakeDispatch{}
	router := setupRouter(dispatch)

	w, response := postIntake(t, router, map[string]any{
		"company": "Acme BV",
		"email":   "jan@acme.example",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "company/contact/email required", response.Error)
	assert.Empty(t, dispatch.created)
}

func TestIntakeRejectsInvalidEmail(t *testing.T) {
	dispatch := &fakeDispatch{}
	router := setupRouter(dispatch)

	w, response := postIntake(t, router, map[string]any{
		"company": "Acme BV",
		"contact": "Jan Jansen",
		"email":   "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_email", response.Error)
}

func TestIntakeClampsNumericFields(t *testing.T) {
	dispatch := &fakeDispatch{}
	router := setupRouter(dispatch)

	_, response := postIntake(t, router, map[string]any{
		"company":        "Acme BV",
		"contact":        "Jan Jansen",
		"email":          "jan@acme.example",
		"people":         999,
		"hours_estimate": -5,
	})

	assert.True(t, response.OK)
	require.Len(t, dispatch.created, 1)
	assert.Equal(t, domain.MaxPeople, dispatch.created[0].People)
	assert.Equal(t, 1, dispatch.created[0].HoursEstimate)
}

func TestIntakeDefaultsWhenUnset(t *testing.T) {
	dispatch := &fakeDispatch{}
	router := setupRouter(dispatch)

	_, response := postIntake(t, router, map[string]any{
		"company": "Acme BV",
		"contact": "Jan Jansen",
		"email":   "jan@acme.example",
	})

	assert.True(t, response.OK)
	require.Len(t, dispatch.created, 1)
	assert.Equal(t, domain.DefaultPeople, dispatch.created[0].People)
	assert.Equal(t, domain.DefaultHours, dispatch.created[0].HoursEstimate)
}
