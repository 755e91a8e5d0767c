package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/pkg/config"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
	"github.com/masego-dev/kasieats-backend/pkg/redis"
	"github.com/masego-dev/kasieats-backend/pkg/types"
)

var (
	errStoreRequired    = errors.New("cart session store is required")
	errResolverRequired = errors.New("cart price resolver is required")
	errLoggerRequired   = errors.New("cart logger is required")
)

// SessionStore persists cart snapshots keyed by session id.
type SessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// PriceResolver returns the current catalog price components for a meal and a
// set of selected add-ons. Quantity updates reprice against these, never the
// totals cached in the stored cart.
type PriceResolver interface {
	ResolveItemPrice(ctx context.Context, mealRef string, addOnRefs []string) (decimal.Decimal, types.AddOnSelections, error)
}

// AddItemInput identifies a catalog meal and its selected add-ons.
type AddItemInput struct {
	MealRef   string
	MealName  string
	AddOnRefs []string
	Quantity  int
}

// Service wraps the pure reducer with session persistence and catalog price
// resolution.
type Service struct {
	store    SessionStore
	resolver PriceResolver
	ttl      time.Duration
	logg     *logger.Logger
}

func NewService(store SessionStore, resolver PriceResolver, cfg config.CartConfig, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, errStoreRequired
	}
	if resolver == nil {
		return nil, errResolverRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Service{store: store, resolver: resolver, ttl: ttl, logg: logg}, nil
}

// Get loads the cart for a session. A missing session is an empty cart.
func (s *Service) Get(ctx context.Context, sessionID string) (State, error) {
	raw, err := s.store.Get(ctx, s.store.CartKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return Empty(), nil
		}
		return Empty(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart session")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt snapshot is unrecoverable; start the session over.
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "discarding corrupt cart snapshot", err)
		return Empty(), nil
	}
	return state, nil
}

// AddItem prices the meal and add-ons from the catalog and appends the line.
func (s *Service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (State, error) {
	basePrice, addOns, err := s.resolver.ResolveItemPrice(ctx, input.MealRef, input.AddOnRefs)
	if err != nil {
		return Empty(), err
	}

	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return Empty(), err
	}

	next := Reduce(state, AddItem{Item: LineItem{
		ID:            uuid.NewString(),
		MealRef:       input.MealRef,
		MealName:      input.MealName,
		Quantity:      input.Quantity,
		UnitBasePrice: basePrice,
		AddOns:        addOns,
	}})
	return next, s.save(ctx, sessionID, next)
}

// RemoveItem drops a line. Unknown ids are a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (State, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return Empty(), err
	}
	next := Reduce(state, RemoveItem{ItemID: itemID})
	return next, s.save(ctx, sessionID, next)
}

// UpdateQuantity reprices the line from current catalog prices and replaces
// it with the new quantity. Quantity <= 0 removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (State, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return Empty(), err
	}

	var target *LineItem
	for i := range state.Items {
		if state.Items[i].ID == itemID {
			target = &state.Items[i]
			break
		}
	}
	if target == nil {
		return state, nil
	}

	basePrice := target.UnitBasePrice
	addOns := target.AddOns
	if quantity > 0 {
		refs := make([]string, 0, len(target.AddOns))
		for _, sel := range target.AddOns {
			refs = append(refs, sel.Ref)
		}
		resolvedBase, resolvedAddOns, err := s.resolver.ResolveItemPrice(ctx, target.MealRef, refs)
		if err == nil {
			basePrice = resolvedBase
			addOns = resolvedAddOns
		} else {
			// Catalog drift (meal withdrawn mid-session): reprice from the
			// stored components rather than failing the update.
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "cart reprice fell back to stored components")
		}
	}

	next := Reduce(state, UpdateQuantity{
		ItemID:        itemID,
		Quantity:      quantity,
		UnitBasePrice: basePrice,
		AddOns:        addOns,
	})
	return next, s.save(ctx, sessionID, next)
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (State, error) {
	next := Empty()
	if err := s.store.Del(ctx, s.store.CartKey(sessionID)); err != nil {
		return next, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart session")
	}
	return next, nil
}

func (s *Service) save(ctx context.Context, sessionID string, state State) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.store.Set(ctx, s.store.CartKey(sessionID), string(encoded), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart session")
	}
	return nil
}
