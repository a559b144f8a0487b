package service

import (
	"fmt"
	"strings"
	"time"

	"datavault-server/internal/domain"
	"datavault-server/internal/repository"
	"datavault-server/internal/websocket"

	"github.com/google/uuid"
)

// RecordService performs all record operations scoped to the verified
// identity passed in by the caller. The owner of a record is always the
// identity that created it; no request payload can set or change it.
type RecordService struct {
	repo   repository.RecordRepository
	events *websocket.Manager
}

func NewRecordService(repo repository.RecordRepository, events *websocket.Manager) *RecordService {
	return &RecordService{
		repo:   repo,
		events: events,
	}
}

func (s *RecordService) Create(userID string, req *domain.CreateRecordRequest) (*domain.Record, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}

	now := time.Now()
	record := &domain.Record{
		ID:        uuid.New().String(),
		OwnerID:   userID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(record); err != nil {
		return nil, err
	}

	s.broadcast(userID, websocket.TypeRecordCreated, record)

	return record, nil
}

func (s *RecordService) List(userID string) ([]*domain.Record, error) {
	return s.repo.ListByOwner(userID)
}

func (s *RecordService) Update(userID, recordID string, req *domain.UpdateRecordRequest) (*domain.Record, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}

	record, err := s.repo.Update(userID, recordID, req)
	if err != nil {
		return nil, err
	}

	s.broadcast(userID, websocket.TypeRecordUpdated, record)

	return record, nil
}

func (s *RecordService) Delete(userID, recordID string) error {
	if err := s.repo.Delete(userID, recordID); err != nil {
		return err
	}

	s.broadcast(userID, websocket.TypeRecordDeleted, &websocket.RecordDeletedPayload{RecordID: recordID})

	return nil
}

func (s *RecordService) broadcast(userID string, msgType websocket.MessageType, payload interface{}) {
	if s.events == nil {
		return
	}

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		return
	}

	s.events.BroadcastToUser(userID, msg)
}
