// Package reconcile converges actual room occupancy toward the membership
// implied by groups, one committed delta at a time.
//
// Desired membership of a room is the union of the users of every group
// attached to it. An addition invites each newly implied user who is not
// already an occupant. A removal revokes a user only when no other group
// attaching the room still includes that user.
//
// Passes are not serialized. Two passes touching the same room may both
// observe a user as absent and both invite; the homeserver treats the
// second invite as a no-op.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"github.com/mmynk/groupsync/internal/ident"
	"github.com/mmynk/groupsync/internal/membership"
	"github.com/mmynk/groupsync/internal/models"
	"github.com/mmynk/groupsync/internal/storage"
)

// Engine runs reconciliation passes. Safe for concurrent use.
type Engine struct {
	store    storage.Store
	provider membership.Provider
	logger   *slog.Logger
	metrics  *metrics
}

// NewEngine creates an engine. Metrics are registered on reg when it is
// not nil.
func NewEngine(store storage.Store, provider membership.Provider, logger *slog.Logger, reg prometheus.Registerer) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    store,
		provider: provider,
		logger:   logger,
		metrics:  newMetrics(reg),
	}
}

// Apply runs one pass for a committed delta. Every pair is decided on its
// own; a failure on one pair never stops the others.
func (e *Engine) Apply(ctx context.Context, delta models.Delta) Report {
	report := Report{Pass: uuid.NewString(), Kind: delta.Kind}
	if delta.Group != nil {
		report.Group = delta.Group.Name
	}
	logger := e.logger.With("pass", report.Pass, "kind", delta.Kind.String(), "group", report.Group)

	start := time.Now()
	pairs := delta.Pairs()
	if len(pairs) == 0 {
		logger.Debug("delta implies no membership changes")
	} else if delta.IsAddition() {
		e.grant(ctx, logger, pairs, &report)
	} else {
		e.revoke(ctx, logger, delta.Group, pairs, &report)
	}

	kind := delta.Kind.String()
	e.metrics.passes.WithLabelValues(kind).Inc()
	e.metrics.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	logger.Info("reconciliation pass finished",
		"pairs", len(pairs),
		"invited", report.Invited,
		"revoked", report.Revoked,
		"skipped", report.Skipped,
		"retained", report.Retained,
		"unresolved", report.Unresolved,
		"failed", len(report.Failures),
		"duration", time.Since(start),
	)
	return report
}

func (e *Engine) grant(ctx context.Context, logger *slog.Logger, pairs []models.Pair, report *Report) {
	for _, pair := range pairs {
		pairLogger := logger.With("room", pair.Room.AliasOrID(), "user", pair.User)

		// Occupancy is re-read for every pair since concurrent passes may
		// have changed it.
		occupants, err := e.provider.ListOccupants(ctx, pair.Room.ID)
		if err != nil {
			pairLogger.Error("failed to list room occupants", "error", err)
			e.metrics.action("invite", resultFailed)
			report.Failures = append(report.Failures, Failure{
				Pair: pair,
				Err:  fmt.Errorf("failed to list occupants of %s: %w", pair.Room.AliasOrID(), err),
			})
			continue
		}
		if _, ok := occupants[pair.User]; ok {
			pairLogger.Debug("user already in room, not inviting")
			e.metrics.action("invite", resultSkipped)
			report.Skipped++
			continue
		}

		err = e.provider.Invite(ctx, pair.Room.ID, pair.User)
		switch {
		case err == nil:
			pairLogger.Info("invited user to room")
			e.metrics.action("invite", resultOK)
			report.Invited++
		case errors.Is(err, membership.ErrAlreadyJoined):
			pairLogger.Debug("user joined before invite")
			e.metrics.action("invite", resultSkipped)
			report.Skipped++
		default:
			pairLogger.Error("failed to invite user", "error", err)
			e.metrics.action("invite", resultFailed)
			report.Failures = append(report.Failures, Failure{
				Pair: pair,
				Err:  fmt.Errorf("failed to invite %s to %s: %w", pair.User, pair.Room.AliasOrID(), err),
			})
		}
	}
}

func (e *Engine) revoke(ctx context.Context, logger *slog.Logger, group *models.Group, pairs []models.Pair, report *Report) {
	rooms := lo.UniqBy(pairs, func(p models.Pair) ident.RoomID { return p.Room.ID })
	others, err := e.otherGroups(ctx, group.ID, lo.Map(rooms, func(p models.Pair, _ int) ident.RoomID { return p.Room.ID }))
	if err != nil {
		// Without the other groups there is no way to tell who keeps access.
		logger.Error("failed to load groups sharing rooms, not revoking", "pairs", len(pairs), "error", err)
		for range pairs {
			e.metrics.action("revoke", resultUnresolved)
		}
		report.Unresolved += len(pairs)
		return
	}

	reason := fmt.Sprintf("removed from group %s", group.Name)
	for _, pair := range pairs {
		pairLogger := logger.With("room", pair.Room.AliasOrID(), "user", pair.User)

		holder, retained := lo.Find(others[pair.Room.ID], func(g *models.Group) bool {
			return g.HasUser(pair.User)
		})
		if retained {
			pairLogger.Debug("user keeps access through another group", "via", holder.Name)
			e.metrics.action("revoke", resultRetained)
			report.Retained++
			continue
		}

		err := e.provider.Revoke(ctx, pair.Room.ID, pair.User, reason)
		switch {
		case err == nil:
			pairLogger.Info("removed user from room")
			e.metrics.action("revoke", resultOK)
			report.Revoked++
		case errors.Is(err, membership.ErrNotAuthorized):
			pairLogger.Warn("not allowed to remove user from room", "error", err)
			e.metrics.action("revoke", resultRefused)
		default:
			pairLogger.Error("failed to remove user from room", "error", err)
			e.metrics.action("revoke", resultFailed)
		}
	}
}

// otherGroups loads, per room, the groups other than exclude that attach
// it. The read runs in its own transaction and sees only committed state.
func (e *Engine) otherGroups(ctx context.Context, exclude int64, roomIDs []ident.RoomID) (map[ident.RoomID][]*models.Group, error) {
	tx, err := e.store.BeginRead(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	result := make(map[ident.RoomID][]*models.Group, len(roomIDs))
	for _, roomID := range roomIDs {
		groups, err := tx.FindGroupsByRoom(ctx, roomID)
		if err != nil {
			return nil, fmt.Errorf("failed to find groups for room %s: %w", roomID, err)
		}
		result[roomID] = lo.Filter(groups, func(g *models.Group, _ int) bool {
			return g.ID != exclude
		})
	}
	return result, nil
}
