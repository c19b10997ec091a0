// Package entities defines the core domain types for name reconciliation:
// the Entity being matched, the MatchCandidate records proposed by authority
// sources, and the ReconciliationResult produced for each entity.
package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/nomina-io/nomina/pkg/errors"
)

// Normalize lowercases and trims a name, applying Unicode case folding
// and NFC normalization so that visually identical names fingerprint
// identically. Casers are stateful, so one is created per call.
func Normalize(name string) string {
	return strings.TrimSpace(cases.Fold().String(norm.NFC.String(name)))
}

// Entity is a single name to be reconciled against authority sources.
// Entities are immutable after construction; the orchestrator never
// mutates one during reconciliation.
type Entity struct {
	// ID is an opaque identifier, unique within a batch.
	ID string

	// Name is the raw display string as supplied by the caller.
	Name string

	// NormalizedName is the folded, trimmed form, derived at construction.
	NormalizedName string

	// Type is the declared or inferred entity category.
	Type Type

	// Context holds caller-supplied hints such as birth_year or location.
	Context map[string]string

	// fingerprint caches the deterministic hash computed at construction.
	fingerprint string
}

// New constructs an Entity, deriving its normalized name and fingerprint.
// The name must be non-empty after trimming.
func New(id, name string, typ Type, context map[string]string) (Entity, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return Entity{}, &errors.ValidationError{
			Field:   "name",
			Value:   name,
			Message: "cannot be empty or whitespace",
		}
	}
	if typ == "" {
		typ = TypeUnknown
	}
	if !typ.IsValid() {
		return Entity{}, &errors.ValidationError{
			Field:   "type",
			Value:   string(typ),
			Message: "unknown entity type",
		}
	}

	// Copy the context so later caller mutation cannot leak in.
	var ctx map[string]string
	if len(context) > 0 {
		ctx = make(map[string]string, len(context))
		for k, v := range context {
			ctx[k] = v
		}
	}

	e := Entity{
		ID:             id,
		Name:           strings.TrimSpace(name),
		NormalizedName: normalized,
		Type:           typ,
		Context:        ctx,
	}
	e.fingerprint = computeFingerprint(e.NormalizedName, e.Type, e.Context)
	return e, nil
}

// MustNew constructs an Entity and panics on invalid input. Test helper.
func MustNew(id, name string, typ Type, context map[string]string) Entity {
	e, err := New(id, name, typ, context)
	if err != nil {
		panic(err)
	}
	return e
}

// Fingerprint returns the deterministic cache key for this entity.
// Structurally identical entities produce identical fingerprints
// regardless of context map iteration order or process restarts.
func (e Entity) Fingerprint() string {
	if e.fingerprint != "" {
		return e.fingerprint
	}
	return computeFingerprint(e.NormalizedName, e.Type, e.Context)
}

// WithType returns a copy of the entity with the given type. Used by the
// orchestrator when classification resolves an Unknown declared type; the
// original entity is left untouched.
func (e Entity) WithType(typ Type) Entity {
	copied := e
	copied.Type = typ
	copied.fingerprint = computeFingerprint(copied.NormalizedName, copied.Type, copied.Context)
	return copied
}

// computeFingerprint hashes the normalized name, type, and canonicalized
// context. Context keys are sorted so serialization is stable.
func computeFingerprint(normalized string, typ Type, context map[string]string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s", normalized, typ)

	if len(context) > 0 {
		keys := make([]string, 0, len(context))
		for k := range context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(h, "\x00%s=%s", k, context[k])
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
