package services

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/taskbox/internal/cache"
	"github.com/yoockh/taskbox/internal/models"
	pgrepo "github.com/yoockh/taskbox/internal/repositories/postgres"
	"github.com/yoockh/taskbox/internal/utils"
)

// FreeTierLimit is the maximum number of todos a non-subscribed user may hold.
const FreeTierLimit = 3

const subscriptionCacheTTL = 5 * time.Minute

type SubscriptionService interface {
	// Status reconciles lazy expiry: a subscription whose end date has passed
	// is persisted as lapsed before the state is returned.
	Status(ctx context.Context, userID string) (*models.SubscriptionStatus, error)
	// Activate grants one calendar month from now (day-of-month overflow rolls
	// into the following month).
	Activate(ctx context.Context, userID string) (time.Time, error)
	CanCreateTodo(ctx context.Context, user *models.User) (bool, error)
}

type subscriptionService struct {
	users pgrepo.UserRepository
	todos pgrepo.TodoRepository
	cache cache.Cache
	now   func() time.Time
}

func NewSubscriptionService(users pgrepo.UserRepository, todos pgrepo.TodoRepository, c cache.Cache) SubscriptionService {
	return &subscriptionService{
		users: users,
		todos: todos,
		cache: c,
		now:   time.Now,
	}
}

func (s *subscriptionService) Status(ctx context.Context, userID string) (*models.SubscriptionStatus, error) {
	const op = "SubscriptionService.Status"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	now := s.now().UTC()
	key := cache.SubscriptionKey(userID)

	if s.cache != nil {
		var st models.SubscriptionStatus
		hit, err := s.cache.GetJSON(ctx, key, &st)
		// cache errors degrade to a DB read; a cached entry whose end date has
		// passed must not mask the lapse
		if err == nil && hit && (st.SubscriptionEnds == nil || st.SubscriptionEnds.After(now)) {
			return &st, nil
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	if user.SubscriptionEnds != nil && user.SubscriptionEnds.Before(now) {
		if err := s.users.SetSubscription(ctx, userID, false, nil); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to reset lapsed subscription", err)
		}
		if s.cache != nil {
			_ = s.cache.Del(ctx, key)
		}
		return &models.SubscriptionStatus{IsSubscribed: false, SubscriptionEnds: nil}, nil
	}

	st := &models.SubscriptionStatus{
		IsSubscribed:     user.IsSubscribed,
		SubscriptionEnds: user.SubscriptionEnds,
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, st, subscriptionCacheTTL)
	}
	return st, nil
}

func (s *subscriptionService) Activate(ctx context.Context, userID string) (time.Time, error) {
	const op = "SubscriptionService.Activate"

	if userID == "" {
		return time.Time{}, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return time.Time{}, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return time.Time{}, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	ends := s.now().UTC().AddDate(0, 1, 0)
	if err := s.users.SetSubscription(ctx, userID, true, &ends); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return time.Time{}, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return time.Time{}, utils.E(utils.CodeInternal, op, "failed to activate subscription", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, cache.SubscriptionKey(userID))
	}
	return ends, nil
}

// CanCreateTodo checks the stored subscription flag and, for free-tier users,
// the live todo count. The count-then-insert window is deliberately left open;
// the cap is a soft limit under concurrent creates.
func (s *subscriptionService) CanCreateTodo(ctx context.Context, user *models.User) (bool, error) {
	const op = "SubscriptionService.CanCreateTodo"

	if user == nil {
		return false, utils.E(utils.CodeInvalidArgument, op, "user is required", nil)
	}
	if user.IsSubscribed {
		return true, nil
	}

	count, err := s.todos.CountByUser(ctx, user.ID)
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to count todos", err)
	}
	return count < FreeTierLimit, nil
}
