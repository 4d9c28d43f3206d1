package service

import (
	"context"
	"errors"

	"github.com/Behyna/bank-webhooks/internal/address"
	"github.com/Behyna/bank-webhooks/internal/constants"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"go.uber.org/zap"
)

type SourceService interface {
	FindOrCreateSource(ctx context.Context, sourceType model.SourceType, value string) (*model.Source, error)
	GetUsersForSource(ctx context.Context, sourceID string) ([]string, error)
	ListSubscribers(ctx context.Context, sourceID string) ([]string, error)
	AddUserSource(ctx context.Context, userID, sourceID string) error
	RemoveUserSource(ctx context.Context, userID, sourceID string) error
}

type source struct {
	sourceRepo     repository.SourceRepository
	userSourceRepo repository.UserSourceRepository
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewSourceService(sourceRepo repository.SourceRepository, userSourceRepo repository.UserSourceRepository,
	metrics *metrics.Metrics, logger *zap.Logger) SourceService {
	return &source{sourceRepo: sourceRepo, userSourceRepo: userSourceRepo, metrics: metrics, logger: logger}
}

// FindOrCreateSource returns the source for (sourceType, value), creating it on
// first sighting. Concurrent callers converge on the same row: the loser of the
// insert race reads back the winner.
func (s *source) FindOrCreateSource(ctx context.Context, sourceType model.SourceType, value string) (*model.Source, error) {
	value = address.Normalize(sourceType, value)

	existing, err := s.sourceRepo.GetByTypeAndValue(ctx, sourceType, value)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to look up source",
			zap.String("sourceType", string(sourceType)),
			zap.Error(err))
		return nil, databaseError(err)
	}

	created := model.Source{SourceType: sourceType, SourceValue: value}
	err = s.sourceRepo.Create(ctx, &created)
	if err == nil {
		s.metrics.RecordSourceCreated(string(sourceType))
		s.logger.Info("Source created",
			zap.String("sourceId", created.ID),
			zap.String("sourceType", string(sourceType)))
		return &created, nil
	}

	if !errors.Is(err, repository.ErrSourceDuplicate) {
		s.logger.Error("Failed to create source",
			zap.String("sourceType", string(sourceType)),
			zap.Error(err))
		return nil, databaseError(err)
	}

	winner, err := s.sourceRepo.GetByTypeAndValue(ctx, sourceType, value)
	if err != nil {
		s.logger.Error("Failed to read source after concurrent create",
			zap.String("sourceType", string(sourceType)),
			zap.Error(err))
		return nil, databaseError(err)
	}

	s.logger.Debug("Source created concurrently, using existing row", zap.String("sourceId", winner.ID))

	return winner, nil
}

// GetUsersForSource returns the active subscribers of a source. An empty slice
// is a valid answer and is not an error.
func (s *source) GetUsersForSource(ctx context.Context, sourceID string) ([]string, error) {
	userIDs, err := s.userSourceRepo.ListActiveUserIDs(ctx, sourceID)
	if err != nil {
		s.logger.Error("Failed to list users for source",
			zap.String("sourceId", sourceID),
			zap.Error(err))
		return nil, databaseError(err)
	}

	return userIDs, nil
}

func (s *source) ListSubscribers(ctx context.Context, sourceID string) ([]string, error) {
	if err := s.ensureSource(ctx, sourceID); err != nil {
		return nil, err
	}

	return s.GetUsersForSource(ctx, sourceID)
}

func (s *source) AddUserSource(ctx context.Context, userID, sourceID string) error {
	if err := s.ensureSource(ctx, sourceID); err != nil {
		return err
	}

	existing, err := s.userSourceRepo.Get(ctx, userID, sourceID)
	switch {
	case err == nil && existing.IsActive:
		return NewServiceError(constants.ErrCodeSourceAlreadyAssociated, ErrSourceAlreadyAssociated)

	case err == nil:
		if err := s.userSourceRepo.SetActive(ctx, existing.ID, true); err != nil {
			s.logger.Error("Failed to reactivate user source",
				zap.String("userId", userID),
				zap.String("sourceId", sourceID),
				zap.Error(err))
			return databaseError(err)
		}

		s.logger.Info("User source reactivated", zap.String("userId", userID), zap.String("sourceId", sourceID))
		return nil

	case !errors.Is(err, repository.ErrNotFound):
		s.logger.Error("Failed to look up user source", zap.String("sourceId", sourceID), zap.Error(err))
		return databaseError(err)
	}

	userSource := model.UserSource{UserID: userID, SourceID: sourceID, IsActive: true}
	err = s.userSourceRepo.Create(ctx, &userSource)
	if errors.Is(err, repository.ErrUserSourceDuplicate) {
		return NewServiceError(constants.ErrCodeSourceAlreadyAssociated, ErrSourceAlreadyAssociated)
	}

	if err != nil {
		s.logger.Error("Failed to create user source",
			zap.String("userId", userID),
			zap.String("sourceId", sourceID),
			zap.Error(err))
		return databaseError(err)
	}

	s.logger.Info("User subscribed to source", zap.String("userId", userID), zap.String("sourceId", sourceID))

	return nil
}

func (s *source) RemoveUserSource(ctx context.Context, userID, sourceID string) error {
	existing, err := s.userSourceRepo.Get(ctx, userID, sourceID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !existing.IsActive) {
		return NewServiceError(constants.ErrCodeAssociationNotFound, ErrAssociationNotFound)
	}

	if err != nil {
		s.logger.Error("Failed to look up user source", zap.String("sourceId", sourceID), zap.Error(err))
		return databaseError(err)
	}

	if err := s.userSourceRepo.SetActive(ctx, existing.ID, false); err != nil {
		s.logger.Error("Failed to deactivate user source",
			zap.String("userId", userID),
			zap.String("sourceId", sourceID),
			zap.Error(err))
		return databaseError(err)
	}

	s.logger.Info("User unsubscribed from source", zap.String("userId", userID), zap.String("sourceId", sourceID))

	return nil
}

func (s *source) ensureSource(ctx context.Context, sourceID string) error {
	_, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err == nil {
		return nil
	}

	if errors.Is(err, repository.ErrNotFound) {
		return NewServiceError(constants.ErrCodeSourceNotFound, ErrSourceNotFound)
	}

	s.logger.Error("Failed to look up source", zap.String("sourceId", sourceID), zap.Error(err))
	return databaseError(err)
}
