// Package nomina reconciles free-text entity names against public
// authority services: Wikidata, VIAF, and the Getty vocabularies. It
// classifies each name, queries the sources registered for its type,
// scores and ranks the returned candidates, and reports a confidence
// for the best match.
package nomina

import (
	"context"
	"fmt"

	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/reconciler"
	"github.com/nomina-io/nomina/pkg/sources"
)

// Nomina reconciles entities against authority sources
type Nomina interface {
	// Reconcile resolves a single entity and returns a ranked result
	Reconcile(ctx context.Context, e entities.Entity) entities.ReconciliationResult

	// ReconcileAll resolves a batch concurrently; results are
	// index-aligned with the input
	ReconcileAll(ctx context.Context, batch []entities.Entity) ([]entities.ReconciliationResult, error)

	// ReconcileNames is a convenience wrapper that builds entities from
	// bare names, inferring each entity's type
	ReconcileNames(ctx context.Context, names []string) ([]entities.ReconciliationResult, error)

	// Statistics returns engine, cache, and breaker counters
	Statistics() reconciler.Stats

	// Sources returns the breaker-wrapped source set
	Sources() *sources.Sources
}

// nomina is the internal implementation of the Nomina interface
type nomina struct {
	engine *reconciler.Reconciler
}

// New creates a new Nomina instance with the given options
func New(opts ...Option) (Nomina, error) {
	engine, err := reconciler.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	return &nomina{engine: engine}, nil
}

// Reconcile resolves a single entity and returns a ranked result
func (n *nomina) Reconcile(ctx context.Context, e entities.Entity) entities.ReconciliationResult {
	return n.engine.Reconcile(ctx, e)
}

// ReconcileAll resolves a batch concurrently
func (n *nomina) ReconcileAll(ctx context.Context, batch []entities.Entity) ([]entities.ReconciliationResult, error) {
	return n.engine.ReconcileAll(ctx, batch)
}

// ReconcileNames builds entities from bare names and reconciles them.
// Types are inferred during reconciliation; invalid names fail the call.
func (n *nomina) ReconcileNames(ctx context.Context, names []string) ([]entities.ReconciliationResult, error) {
	batch := make([]entities.Entity, 0, len(names))
	for i, name := range names {
		e, err := entities.New(fmt.Sprintf("n%d", i+1), name, entities.TypeUnknown, nil)
		if err != nil {
			return nil, err
		}
		batch = append(batch, e)
	}
	return n.engine.ReconcileAll(ctx, batch)
}

// Statistics returns engine, cache, and breaker counters
func (n *nomina) Statistics() reconciler.Stats {
	return n.engine.Stats()
}

// Sources returns the breaker-wrapped source set
func (n *nomina) Sources() *sources.Sources {
	return n.engine.Sources()
}
