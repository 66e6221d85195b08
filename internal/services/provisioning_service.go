package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yoockh/taskbox/internal/models"
	pgrepo "github.com/yoockh/taskbox/internal/repositories/postgres"
	"github.com/yoockh/taskbox/internal/utils"
	"gorm.io/datatypes"
)

// UserCreatedEvent is the data section of a Clerk "user.created" delivery.
type UserCreatedEvent struct {
	ID                    string         `json:"id"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
}

type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type ProvisioningService interface {
	// HandleUserCreated inserts the user once; redelivered events are a no-op.
	HandleUserCreated(ctx context.Context, evt UserCreatedEvent) (created bool, err error)
	SeenEvent(ctx context.Context, msgID string) (bool, error)
	RecordEvent(ctx context.Context, msgID, eventType string, payload []byte) error
}

type provisioningService struct {
	users  pgrepo.UserRepository
	events pgrepo.WebhookEventRepository
	now    func() time.Time
}

func NewProvisioningService(users pgrepo.UserRepository, events pgrepo.WebhookEventRepository) ProvisioningService {
	return &provisioningService{
		users:  users,
		events: events,
		now:    time.Now,
	}
}

func (s *provisioningService) HandleUserCreated(ctx context.Context, evt UserCreatedEvent) (bool, error) {
	const op = "ProvisioningService.HandleUserCreated"

	if evt.ID == "" {
		return false, utils.E(utils.CodeInvalidArgument, op, "event is missing the user id", nil)
	}

	_, err := s.users.GetByID(ctx, evt.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return false, utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	user := &models.User{
		ID:           evt.ID,
		Email:        selectEmail(evt),
		IsSubscribed: false,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost the race against a concurrent delivery of the same event
		if errors.Is(err, utils.ErrAlreadyExists) {
			return false, nil
		}
		return false, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return true, nil
}

// selectEmail prefers the address tagged as primary, then the first address,
// then a placeholder derived from the user id.
func selectEmail(evt UserCreatedEvent) string {
	if len(evt.EmailAddresses) == 0 {
		return fmt.Sprintf("%s@temp.placeholder.com", evt.ID)
	}
	if evt.PrimaryEmailAddressID != "" {
		for _, addr := range evt.EmailAddresses {
			if addr.ID == evt.PrimaryEmailAddressID {
				return addr.EmailAddress
			}
		}
	}
	return evt.EmailAddresses[0].EmailAddress
}

func (s *provisioningService) SeenEvent(ctx context.Context, msgID string) (bool, error) {
	const op = "ProvisioningService.SeenEvent"

	if msgID == "" {
		return false, nil
	}
	seen, err := s.events.Exists(ctx, msgID)
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to check event ledger", err)
	}
	return seen, nil
}

func (s *provisioningService) RecordEvent(ctx context.Context, msgID, eventType string, payload []byte) error {
	const op = "ProvisioningService.RecordEvent"

	if msgID == "" {
		return nil
	}
	e := &models.WebhookEvent{
		ID:         msgID,
		EventType:  eventType,
		Payload:    datatypes.JSON(payload),
		ReceivedAt: s.now().UTC(),
	}
	if err := s.events.Record(ctx, e); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to record event", err)
	}
	return nil
}
