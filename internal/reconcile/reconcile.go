// Package reconcile merges freshly extracted candidates into the catalog.
// It decides create versus update versus no-op and guarantees that a known
// stored value is never overwritten with unknown.
package reconcile

import (
	"context"
	"log/slog"
	"sort"

	"github.com/flockwood/Offside-Tool/internal/player"
	"github.com/flockwood/Offside-Tool/internal/store"
)

// Reconciler merges candidates into the catalog through a PlayerStore.
type Reconciler struct {
	store store.PlayerStore
}

// New creates a Reconciler on top of the given store.
func New(st store.PlayerStore) *Reconciler {
	return &Reconciler{store: st}
}

// Reconcile merges one candidate into the catalog and reports what
// happened. The match is by external identifier first, then by full name;
// with no match a new record is created. Running the same candidate twice
// is idempotent: the second pass is unchanged and writes nothing.
//
// Store failures return an error; the caller decides how to report them.
// The returned outcome's Target is left empty for the caller to fill.
func (r *Reconciler) Reconcile(ctx context.Context, cand *player.Candidate) (player.Outcome, error) {
	existing, err := r.lookup(ctx, cand)
	if err != nil {
		return player.Outcome{}, err
	}

	if existing == nil {
		fields := candidateFields(cand)
		id, err := r.store.Create(ctx, fields)
		if err != nil {
			return player.Outcome{}, err
		}
		slog.Info("Created player", "id", id, "external_id", cand.ExternalID, "name", cand.FullName())
		return player.Outcome{
			Status:     player.StatusCreated,
			PlayerID:   id,
			ExternalID: cand.ExternalID,
		}, nil
	}

	changes := diff(existing, cand)
	if len(changes) == 0 {
		return player.Outcome{
			Status:     player.StatusUnchanged,
			PlayerID:   existing.ID,
			ExternalID: cand.ExternalID,
		}, nil
	}

	if err := r.store.Update(ctx, existing.ID, changes); err != nil {
		return player.Outcome{}, err
	}
	changed := make([]string, 0, len(changes))
	for col := range changes {
		changed = append(changed, col)
	}
	sort.Strings(changed)
	slog.Info("Updated player", "id", existing.ID, "external_id", cand.ExternalID, "fields", changed)
	return player.Outcome{
		Status:        player.StatusUpdated,
		PlayerID:      existing.ID,
		ExternalID:    cand.ExternalID,
		ChangedFields: changed,
	}, nil
}

// lookup finds the catalog record the candidate belongs to, nil when none
// exists. The external identifier binds harder than the name.
func (r *Reconciler) lookup(ctx context.Context, cand *player.Candidate) (*player.Record, error) {
	if cand.ExternalID != "" {
		rec, err := r.store.FindByExternalID(ctx, cand.ExternalID)
		if err != nil || rec != nil {
			return rec, err
		}
	}
	if name := cand.FullName(); name != "" {
		return r.store.FindByFullName(ctx, name)
	}
	return nil, nil
}
