package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/greenbasket/greenbasket/internal/domain"
	"github.com/greenbasket/greenbasket/internal/tools"
)

// snapshotUnavailable is the degraded placeholder when the platform
// snapshot aggregation fails. The request still proceeds.
const snapshotUnavailable = "snapshot unavailable"

// ContextBundle is the read-only prompt material assembled per request.
// It is rebuilt every time; snapshot figures change between calls, so
// bundles are never cached.
type ContextBundle struct {
	General  string
	Page     *domain.PageContext
	Snapshot string
	Account  string
}

// buildContext fans out to the repositories concurrently. A snapshot
// failure degrades to the placeholder; an account summary failure is
// fatal, because answering as if the caller were anonymous when their
// auth context could not be fetched would be wrong.
func (e *Engine) buildContext(ctx context.Context, page *domain.PageContext, session domain.SessionContext) (*ContextBundle, error) {
	bundle := &ContextBundle{
		General: tools.GeneralInfo(),
		Page:    page,
	}

	var (
		wg      sync.WaitGroup
		snapErr error
		accErr  error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		bundle.Snapshot, snapErr = e.platformSnapshot(ctx)
	}()

	if !session.Anonymous() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bundle.Account, accErr = e.accountSummary(ctx, session)
		}()
	}

	wg.Wait()

	if accErr != nil {
		return nil, fmt.Errorf("account summary: %w", accErr)
	}
	if snapErr != nil {
		e.log.Warn().Err(snapErr).Msg("platform snapshot failed, degrading")
		bundle.Snapshot = snapshotUnavailable
	}
	return bundle, nil
}

func (e *Engine) platformSnapshot(ctx context.Context) (string, error) {
	stats, err := e.repos.Stats.PlatformStats(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"%d products across %d restaurants, %d orders placed, %d recycling entries, %d events, %.1f kg carbon saved",
		stats.Products, stats.Restaurants, stats.Orders, stats.RecyclingEntries,
		stats.Events, float64(stats.CarbonSavedGrams)/1000), nil
}

func (e *Engine) accountSummary(ctx context.Context, session domain.SessionContext) (string, error) {
	if session.UserID != "" {
		s, err := e.repos.Stats.UserSummary(ctx, session.UserID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"Signed in as %s (%s). %d green points, %d items in cart (%s total), %d favorites, %d recent orders (%d pending).",
			s.Name, roleLabel(session.Role), s.Points, s.CartItems,
			formatCents(s.CartTotal), s.Favorites, s.RecentOrders, s.PendingOrders), nil
	}

	s, err := e.repos.Stats.RestaurantSummary(ctx, session.RestaurantID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Signed in as restaurant %s. %d products listed, %d orders (%d pending), %s revenue from delivered orders.",
		s.Name, s.Products, s.Orders, s.PendingOrders, formatCents(s.RevenueCents)), nil
}

func roleLabel(role domain.Role) string {
	switch role {
	case domain.RoleOrganizer:
		return "event organizer"
	case domain.RoleRecycleMan:
		return "recycling reviewer"
	default:
		return "customer"
	}
}
