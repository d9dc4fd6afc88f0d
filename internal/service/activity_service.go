package service

import (
	"context"

	"procurement/internal/model"
	"procurement/internal/repository"
	"procurement/internal/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActivityResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
	IPAddress  string `json:"ip_address"`
	CreatedAt  string `json:"created_at"`
}

// ActivityService records who did what and fans notifications out to the
// websocket feed. Recording failures are logged, never propagated; the
// business mutation already happened.
type ActivityService interface {
	Record(ctx context.Context, userID, action, entityType, entityID, details, ip string)
	List(ctx context.Context, page, limit int) ([]ActivityResponse, int64, error)
}

type activityService struct {
	repo repository.ActivityRepository
	hub  *websocket.Hub
	log  *zap.Logger
}

// NewActivityService creates a new ActivityService instance
func NewActivityService(repo repository.ActivityRepository, hub *websocket.Hub, log *zap.Logger) ActivityService {
	return &activityService{repo: repo, hub: hub, log: log}
}

func (s *activityService) Record(ctx context.Context, userID, action, entityType, entityID, details, ip string) {
	entry := &model.ActivityLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  ip,
	}
	if uid, err := uuid.Parse(userID); err == nil {
		entry.UserID = &uid
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Warn("failed to record activity",
			zap.String("action", action), zap.String("entity_id", entityID), zap.Error(err))
		return
	}

	if s.hub != nil {
		s.hub.Notify(websocket.Event{
			Type:       "activity",
			EntityType: entityType,
			EntityID:   entityID,
			Message:    action,
		})
	}
}

func (s *activityService) List(ctx context.Context, page, limit int) ([]ActivityResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ActivityResponse, 0, len(entries))
	for _, e := range entries {
		username := "System"
		userID := ""
		if e.User != nil {
			username = e.User.Username
		}
		if e.UserID != nil {
			userID = e.UserID.String()
		}

		res = append(res, ActivityResponse{
			ID:         e.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Details:    e.Details,
			IPAddress:  e.IPAddress,
			CreatedAt:  e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
