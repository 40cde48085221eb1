// Package catalog decodes the entities of an instance archive into beans, and checks
// that building entities from the beans again yields the same beans.
package catalog

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/convert"
	"github.com/dnswlt/metamap/internal/filter"
	"github.com/dnswlt/metamap/internal/instance"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sync/errgroup"
)

// Item is an entity of the archive together with the bean it was decoded into.
type Item struct {
	Kind          string
	Entity        *instance.Entity
	Relationships []*instance.Relationship
	Bean          beans.Bean
}

// Options control which entities Decode decodes.
type Options struct {
	// Kinds to decode. Entities whose most specific kind is not listed are skipped.
	// Empty means all kinds registered with the mapper.
	Kinds []string
	// Only entities matching Filter are decoded. A nil filter matches all entities.
	Filter *filter.Filter
	// Max. number of entities decoded concurrently. Defaults to GOMAXPROCS.
	Workers int
}

// DecodeError is returned for entities that cannot be decoded.
type DecodeError struct {
	GUID   string
	Source string // File the entity was read from.
	Kind   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("entity %s (%s) in %q: %v", e.GUID, e.Kind, e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Select returns the entities of a that opts select, in archive order, with the kind
// each one is decoded as.
func Select(m *convert.Mapper, a *instance.Archive, opts Options) ([]*Item, error) {
	var items []*Item
	for _, e := range a.Entities {
		kind, ok := m.ResolveKind(e.Type)
		if !ok {
			continue
		}
		if len(opts.Kinds) > 0 && !slices.Contains(opts.Kinds, kind) {
			continue
		}
		match, err := opts.Filter.MatchEntity(m.Types(), kind, e)
		if err != nil {
			return nil, &DecodeError{GUID: e.GUID, Source: a.Source(e.GUID), Kind: kind, Err: err}
		}
		if !match {
			continue
		}
		items = append(items, &Item{
			Kind:          kind,
			Entity:        e,
			Relationships: a.RelationshipsOf(e.GUID),
		})
	}
	return items, nil
}

// Decode decodes the entities of a that opts select. It stops at the first entity that
// cannot be decoded or when ctx is done.
func Decode(ctx context.Context, m *convert.Mapper, a *instance.Archive, opts Options) ([]*Item, error) {
	items, err := Select(m, a, opts)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, it := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := m.DecodeEntity(it.Kind, it.Entity, it.Relationships...)
			if err != nil {
				return &DecodeError{GUID: it.Entity.GUID, Source: a.Source(it.Entity.GUID), Kind: it.Kind, Err: err}
			}
			it.Bean = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Mismatch describes a bean that changed in a round trip.
type Mismatch struct {
	GUID string
	Kind string
	Diff string // cmp.Diff output (-decoded +rebuilt)
}

// Check builds a new entity from each decoded item's bean and decodes it again
// with the item's relationships. It returns the items whose bean changed.
// Errors building or decoding are returned immediately.
func Check(m *convert.Mapper, items []*Item) ([]Mismatch, error) {
	var mismatches []Mismatch
	for _, it := range items {
		if it.Bean == nil {
			return nil, fmt.Errorf("entity %s was not decoded", it.Entity.GUID)
		}
		e, err := m.BuildEntity(it.Kind, it.Bean)
		if err != nil {
			return nil, &DecodeError{GUID: it.Entity.GUID, Kind: it.Kind, Err: fmt.Errorf("cannot build entity: %w", err)}
		}
		b, err := m.DecodeEntity(it.Kind, e, it.Relationships...)
		if err != nil {
			return nil, &DecodeError{GUID: it.Entity.GUID, Kind: it.Kind, Err: fmt.Errorf("cannot decode rebuilt entity: %w", err)}
		}
		if diff := cmp.Diff(it.Bean, b, cmpopts.EquateEmpty()); diff != "" {
			mismatches = append(mismatches, Mismatch{GUID: it.Entity.GUID, Kind: it.Kind, Diff: diff})
		}
	}
	return mismatches, nil
}

// Export returns a new archive with the entities of items and all relationships
// of a whose ends are both among them.
func Export(a *instance.Archive, items []*Item) *instance.Archive {
	guids := make(map[string]bool, len(items))
	for _, it := range items {
		guids[it.Entity.GUID] = true
	}
	out := &instance.Archive{}
	for _, e := range a.Entities {
		if guids[e.GUID] {
			out.Entities = append(out.Entities, e)
		}
	}
	for _, r := range a.Relationships {
		if r.End1 != nil && r.End2 != nil && guids[r.End1.GUID] && guids[r.End2.GUID] {
			out.Relationships = append(out.Relationships, r)
		}
	}
	return out
}
