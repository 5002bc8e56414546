package services

import (
	"context"
	"fmt"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeedbackService owns the lifecycle of feedback records.
type FeedbackService struct {
	repo      repository.FeedbackRepository
	audit     AuditLog
	publisher EventPublisher
	logger    *zap.Logger
}

func NewFeedbackService(repo repository.FeedbackRepository, audit AuditLog, publisher EventPublisher, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, audit: audit, publisher: publisher, logger: logger}
}

// Submit stores a new record. The status is always StatusPending.
func (s *FeedbackService) Submit(ctx context.Context, sub models.FeedbackSubmission) (*models.Feedback, error) {
	sub.Normalize()
	if err := sub.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorCodeValidation, models.RequiredFieldsMessage, err)
	}

	f := &models.Feedback{
		SocieteAgence: sub.Societe,
		Date:          sub.Date,
		Nom:           sub.Nom,
		Prenom:        sub.Prenom,
		LieuClient:    sub.Lieu,
		TypeProbleme:  sub.Type,
		Description:   sub.Description,
		Action:        sub.Action,
		Status:        models.StatusPending,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.audit.Record(models.TriageEvent{FeedbackID: f.ID, Action: models.TriageCreated, Value: string(f.Status)})

	msg := models.FeedbackCreatedMessage{
		EventID:      uuid.NewString(),
		FeedbackID:   f.ID,
		TypeProbleme: f.TypeProbleme,
		LieuClient:   f.LieuClient,
		CreatedAt:    f.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, NewFeedbackQueue, msg); err != nil {
		s.logger.Warn("failed to publish feedback.created", zap.Int("feedback_id", f.ID), zap.Error(err))
	}

	s.logger.Info("feedback submitted", zap.Int("feedback_id", f.ID), zap.String("type", f.TypeProbleme))
	return f, nil
}

func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	return s.repo.List(ctx)
}

func (s *FeedbackService) Get(ctx context.Context, id int) (*models.Feedback, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus sets any of the three statuses, whatever the current one.
func (s *FeedbackService) UpdateStatus(ctx context.Context, adminID string, id int, status models.Status) (*models.Feedback, error) {
	if !status.Valid() {
		return nil, apperrors.Newf(apperrors.ErrorCodeValidation, "Statut invalide: %q", status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.audit.Record(models.TriageEvent{FeedbackID: id, Action: models.TriageStatusChanged, AdminID: adminID, Value: string(status)})
	return s.repo.GetByID(ctx, id)
}

// UpdateAdminAction replaces the admin annotation wholesale.
func (s *FeedbackService) UpdateAdminAction(ctx context.Context, adminID string, id int, text string) (*models.Feedback, error) {
	if err := s.repo.UpdateAdminAction(ctx, id, text); err != nil {
		return nil, err
	}
	s.audit.Record(models.TriageEvent{FeedbackID: id, Action: models.TriageAdminAction, AdminID: adminID, Value: text})
	return s.repo.GetByID(ctx, id)
}

func (s *FeedbackService) Delete(ctx context.Context, adminID string, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(models.TriageEvent{FeedbackID: id, Action: models.TriageDeleted, AdminID: adminID})
	s.logger.Info("feedback deleted", zap.Int("feedback_id", id), zap.String("admin_id", adminID))
	return nil
}

// History returns the audit trail of a record, newest first. Deleted
// records keep their history.
func (s *FeedbackService) History(ctx context.Context, id int) ([]models.TriageEvent, error) {
	return s.audit.History(ctx, id)
}
