package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/application/usecase"
	"github.com/bibbank/risk-service/internal/domain/domainerr"
	"github.com/bibbank/risk-service/internal/domain/event"
)

func TestCreateRiskUseCase_Execute(t *testing.T) {
	t.Run("creates a draft risk and publishes RiskCreated", func(t *testing.T) {
		repo := newMockRiskRepository()
		publisher := &mockEventPublisher{}
		uc := usecase.NewCreateRiskUseCase(repo, publisher, testLogger())

		resp, err := uc.Execute(context.Background(), dto.CreateRiskRequest{
			Title:       "Faille de sécurité critique - Injection SQL",
			Type:        "security",
			Severity:    5,
			Probability: 4,
			Description: "login form",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, 20, resp.Score)
		assert.Equal(t, "high", resp.ScoreLevel)
		assert.Nil(t, resp.SiteID)
		assert.Nil(t, resp.AssignedToID)
		assert.False(t, resp.CreatedAt.IsZero())

		require.Len(t, repo.saved, 1)

		require.Len(t, publisher.publishedEvents, 1)
		created, ok := publisher.publishedEvents[0].(event.RiskCreated)
		require.True(t, ok)
		assert.Equal(t, int64(1), created.RiskID)
		assert.Equal(t, "1", created.AggregateID())
	})

	t.Run("applies optional assignments before saving", func(t *testing.T) {
		repo := newMockRiskRepository()
		uc := usecase.NewCreateRiskUseCase(repo, &mockEventPublisher{}, testLogger())

		resp, err := uc.Execute(context.Background(), dto.CreateRiskRequest{
			Title:        "Chemical spill",
			Type:         "environment",
			Severity:     3,
			Probability:  2,
			SiteID:       int64Ptr(4),
			AssignedToID: int64Ptr(8),
		})
		require.NoError(t, err)

		require.NotNil(t, resp.SiteID)
		require.NotNil(t, resp.AssignedToID)
		assert.Equal(t, int64(4), *resp.SiteID)
		assert.Equal(t, int64(8), *resp.AssignedToID)
		require.Len(t, repo.saved, 1)
		assert.Equal(t, int64(4), repo.saved[0].SiteID())
	})

	t.Run("rejects out of range severity without saving", func(t *testing.T) {
		repo := newMockRiskRepository()
		publisher := &mockEventPublisher{}
		uc := usecase.NewCreateRiskUseCase(repo, publisher, testLogger())

		_, err := uc.Execute(context.Background(), dto.CreateRiskRequest{
			Title: "Valid", Type: "cyber", Severity: 6, Probability: 1,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerr.ErrOutOfRange)
		assert.Empty(t, repo.saved)
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("rejects short title", func(t *testing.T) {
		uc := usecase.NewCreateRiskUseCase(newMockRiskRepository(), &mockEventPublisher{}, testLogger())

		_, err := uc.Execute(context.Background(), dto.CreateRiskRequest{
			Title: "AB", Type: "cyber", Severity: 1, Probability: 1,
		})
		assert.ErrorIs(t, err, domainerr.ErrInvalidTitle)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		uc := usecase.NewCreateRiskUseCase(newMockRiskRepository(), &mockEventPublisher{}, testLogger())

		_, err := uc.Execute(context.Background(), dto.CreateRiskRequest{
			Title: "Valid", Type: "bogus", Severity: 1, Probability: 1,
		})
		assert.ErrorIs(t, err, domainerr.ErrInvalidType)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := newMockRiskRepository()
		repo.saveErr = errors.New("connection refused")
		publisher := &mockEventPublisher{}
		uc := usecase.NewCreateRiskUseCase(repo, publisher, testLogger())

		_, err := uc.Execute(context.Background(), dto.CreateRiskRequest{
			Title: "Valid", Type: "social", Severity: 2, Probability: 2,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save risk")
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("reports publish failure after saving", func(t *testing.T) {
		repo := newMockRiskRepository()
		publisher := &mockEventPublisher{publishErr: errors.New("audit store down")}
		uc := usecase.NewCreateRiskUseCase(repo, publisher, testLogger())

		resp, err := uc.Execute(context.Background(), dto.CreateRiskRequest{
			Title: "Valid", Type: "social", Severity: 2, Probability: 2,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrEventDelivery)
		assert.Contains(t, err.Error(), "audit store down")
		assert.Equal(t, int64(1), resp.ID)
		assert.Len(t, repo.saved, 1)
	})
}
