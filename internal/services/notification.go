package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/repos"
	"github.com/praxishq/praxis-backend/internal/types"
)

type NotificationService interface {
	Create(dbc dbctx.Context, userID uuid.UUID, notifType, title, message, link string) (*types.Notification, error)
	ListForUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Notification, error)
	MarkRead(dbc dbctx.Context, userID, notificationID uuid.UUID) error
}

type notificationService struct {
	db     *gorm.DB
	log    *logger.Logger
	repo   repos.NotificationRepo
	notify SimulationNotifier
}

func NewNotificationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.NotificationRepo,
	notify SimulationNotifier,
) NotificationService {
	return &notificationService{
		db:     db,
		log:    baseLog.With("service", "NotificationService"),
		repo:   repo,
		notify: notify,
	}
}

func (s *notificationService) Create(dbc dbctx.Context, userID uuid.UUID, notifType, title, message, link string) (*types.Notification, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	row := &types.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if _, err := s.repo.Create(dbc.Ctx, dbc.Tx, row); err != nil {
		return nil, err
	}
	s.notify.NotificationCreated(userID, row)
	return row, nil
}

func (s *notificationService) ListForUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Notification, error) {
	return s.repo.GetByUserID(dbc.Ctx, dbc.Tx, userID, limit)
}

func (s *notificationService) MarkRead(dbc dbctx.Context, userID, notificationID uuid.UUID) error {
	row, err := s.repo.GetByID(dbc.Ctx, dbc.Tx, notificationID)
	if err != nil {
		return err
	}
	if row == nil {
		return apierr.NotFound(fmt.Errorf("notification %s not found", notificationID))
	}
	if row.UserID != userID {
		return apierr.Forbidden(fmt.Errorf("notification %s is not owned by caller", notificationID))
	}
	return s.repo.MarkRead(dbc.Ctx, dbc.Tx, notificationID)
}
