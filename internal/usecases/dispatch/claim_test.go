package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

func TestClaimWinsOnOpenRequest(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusOpen, "", "")

	result, err := f.service.Claim(context.Background(), request.ID, "U111", "Alice")
	require.NoError(t, err)
	require.True(t, result.Won)

	assert.Equal(t, domain.ClaimStatusClaimed, result.Request.ClaimStatus)
	require.NotNil(t, result.Request.ClaimedBy)
	assert.Equal(t, "U111", *result.Request.ClaimedBy)
	require.NotNil(t, result.Request.ClaimedName)
	assert.Equal(t, "Alice", *result.Request.ClaimedName)
	assert.NotNil(t, result.Request.ClaimedAt)

	// карточка перерисована, переход записан в аудит
	assert.Equal(t, 1, f.slack.updated)
	assert.Equal(t, 1, f.statusRepo.count(request.ID))
}

func TestClaimLostReturnsWinner(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusClaimed, "U111", "Alice")

	result, err := f.service.Claim(context.Background(), request.ID, "U222", "Bob")
	require.NoError(t, err)
	require.False(t, result.Won)

	// проигравший видит актуального владельца, не свои данные
	require.NotNil(t, result.Request.ClaimedName)
	assert.Equal(t, "Alice", *result.Request.ClaimedName)
	assert.Equal(t, domain.ClaimStatusClaimed, result.Request.ClaimStatus)

	// проигрыш не трогает ни карточку, ни аудит
	assert.Equal(t, 0, f.slack.updated)
	assert.Equal(t, 0, f.statusRepo.count(request.ID))
}

func TestClaimUnknownRequest(t *testing.T) {
	f := newFixture()

	_, err := f.service.Claim(context.Background(), uuid.New(), "U111", "Alice")
	require.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestClaimConcurrentSingleWinner(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusOpen, "", "")

	const agents = 16

	results := make([]*domain.ClaimResult, agents)
	errs := make([]error, agents)

	var wg sync.WaitGroup
	for i := 0; i < agents; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			actorID := "U" + string(rune('A'+n))
			results[n], errs[n] = f.service.Claim(context.Background(), request.ID, actorID, "Agent "+actorID)
		}(i)
	}
	wg.Wait()

	winners := 0
	var winnerName string
	for i := 0; i < agents; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		if results[i].Won {
			winners++
			winnerName = *results[i].Request.ClaimedName
		}
	}

	require.Equal(t, 1, winners)

	// все проигравшие видят одного и того же победителя
	for i := 0; i < agents; i++ {
		if results[i].Won {
			continue
		}
		require.NotNil(t, results[i].Request.ClaimedName)
		assert.Equal(t, winnerName, *results[i].Request.ClaimedName)
	}

	// ровно один переход попал в аудит
	assert.Equal(t, 1, f.statusRepo.count(request.ID))
}

func TestAdvanceClaimsOpenRequest(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusOpen, "", "")

	updated, err := f.service.AdvanceStatus(context.Background(), request.ID, "U111", "Alice", domain.ClaimStatusInProgress)
	require.NoError(t, err)

	// продвижение открытой заявки попутно клеймит её на вызывающего
	assert.Equal(t, domain.ClaimStatusInProgress, updated.ClaimStatus)
	require.NotNil(t, updated.ClaimedBy)
	assert.Equal(t, "U111", *updated.ClaimedBy)
}

func TestAdvanceKeepsExistingOwner(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusClaimed, "U111", "Alice")

	updated, err := f.service.AdvanceStatus(context.Background(), request.ID, "U222", "Bob", domain.ClaimStatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, domain.ClaimStatusInProgress, updated.ClaimStatus)
	require.NotNil(t, updated.ClaimedBy)
	assert.Equal(t, "U111", *updated.ClaimedBy)
}

func TestAdvanceIdempotentAtTarget(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusInProgress, "U111", "Alice")

	updated, err := f.service.AdvanceStatus(context.Background(), request.ID, "U111", "Alice", domain.ClaimStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusInProgress, updated.ClaimStatus)

	// no-op не пишет аудит и не трогает карточку
	assert.Equal(t, 0, f.statusRepo.count(request.ID))
	assert.Equal(t, 0, f.slack.updated)
}

func TestAdvanceRejectsBackward(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusInProgress, "U111", "Alice")

	current, err := f.service.AdvanceStatus(context.Background(), request.ID, "U222", "Bob", domain.ClaimStatusClaimed)
	require.ErrorIs(t, err, domain.ErrStatusConflict)
	require.NotNil(t, current)
	assert.Equal(t, domain.ClaimStatusInProgress, current.ClaimStatus)
}

func TestAdvanceRejectsClosedTarget(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusClaimed, "U111", "Alice")

	_, err := f.service.AdvanceStatus(context.Background(), request.ID, "U111", "Alice", domain.ClaimStatusClosed)
	require.Error(t, err)
}

func TestCloseRequiresOwner(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusOpen, "", "")

	current, err := f.service.Close(context.Background(), request.ID, "admin")
	require.ErrorIs(t, err, domain.ErrStatusConflict)
	assert.Equal(t, domain.ClaimStatusOpen, current.ClaimStatus)
}

func TestCloseFromInProgress(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusInProgress, "U111", "Alice")

	updated, err := f.service.Close(context.Background(), request.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusClosed, updated.ClaimStatus)

	// закрытие не стирает владельца, история остаётся на строке
	require.NotNil(t, updated.ClaimedBy)
	assert.Equal(t, "U111", *updated.ClaimedBy)
}

func TestCloseIdempotent(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusClosed, "U111", "Alice")

	updated, err := f.service.Close(context.Background(), request.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusClosed, updated.ClaimStatus)
	assert.Equal(t, 0, f.statusRepo.count(request.ID))
}

func TestResetClearsOwnership(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusInProgress, "U111", "Alice")

	updated, err := f.service.Reset(context.Background(), request.ID, "admin")
	require.NoError(t, err)

	assert.Equal(t, domain.ClaimStatusOpen, updated.ClaimStatus)
	assert.Nil(t, updated.ClaimedBy)
	assert.Nil(t, updated.ClaimedName)
	assert.Nil(t, updated.ClaimedAt)

	// после сброса заявку можно заклеймить заново
	result, err := f.service.Claim(context.Background(), request.ID, "U222", "Bob")
	require.NoError(t, err)
	assert.True(t, result.Won)
}

func TestResetIdempotentOnOpen(t *testing.T) {
	f := newFixture()
	request := f.seedRequest(domain.ClaimStatusOpen, "", "")

	updated, err := f.service.Reset(context.Background(), request.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusOpen, updated.ClaimStatus)
	assert.Equal(t, 0, f.statusRepo.count(request.ID))
}
