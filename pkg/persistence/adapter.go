package persistence

import (
	"context"
	"errors"

	"github.com/ahmed8601/kahramana-site/pkg/cart"

	"go.uber.org/zap"
)

// Catalog reports which item ids may be restored.
type Catalog interface {
	Has(id int) bool
}

// Adapter loads and saves one cart snapshot. Storage failures never reach
// the caller: a failed load yields an empty cart, a failed save is logged.
type Adapter struct {
	storage Storage
	key     string
	catalog Catalog
	log     *zap.Logger
	ready   bool
}

// NewAdapter returns an adapter for the entry named key.
func NewAdapter(storage Storage, key string, catalog Catalog, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{storage: storage, key: key, catalog: catalog, log: log.With(zap.String("key", key))}
}

// Ready reports whether Load has completed.
func (a *Adapter) Ready() bool {
	return a.ready
}

// Load restores the cart. An absent entry yields an empty cart. A malformed
// or version-mismatched entry yields an empty cart and is erased. Entries for
// unknown items or with non-positive quantities are dropped.
func (a *Adapter) Load(ctx context.Context) *cart.Cart {
	defer func() { a.ready = true }()

	raw, err := a.storage.Get(ctx, a.key)
	if errors.Is(err, ErrNotFound) {
		return &cart.Cart{}
	}
	if err != nil {
		a.log.Warn("cart snapshot read failed", zap.Error(err))
		a.erase(ctx)
		return &cart.Cart{}
	}

	snap, err := Decode(raw)
	if err != nil {
		a.log.Info("discarding cart snapshot", zap.Error(err))
		a.erase(ctx)
		return &cart.Cart{}
	}

	kept := make([]cart.Entry, 0, len(snap.Entries))
	dropped := snap.Dropped
	for _, e := range snap.Entries {
		if !a.catalog.Has(e.ItemID) {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	if dropped > 0 {
		a.log.Debug("dropped invalid cart entries", zap.Int("dropped", dropped), zap.Int("kept", len(kept)))
	}
	return cart.FromEntries(kept)
}

// Save writes the snapshot of c. It does nothing until Load has completed.
func (a *Adapter) Save(ctx context.Context, c *cart.Cart) {
	if !a.ready {
		return
	}
	if err := a.storage.Set(ctx, a.key, Encode(c.Entries())); err != nil {
		a.log.Warn("cart snapshot write failed", zap.Error(err))
	}
}

func (a *Adapter) erase(ctx context.Context) {
	if err := a.storage.Remove(ctx, a.key); err != nil {
		a.log.Warn("cart snapshot remove failed", zap.Error(err))
	}
}
