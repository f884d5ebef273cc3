package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/componentry/internal/compose"
	"github.com/vk/componentry/internal/config"
	"github.com/vk/componentry/internal/ctxlog"
	"github.com/vk/componentry/internal/fragment"
	"github.com/vk/componentry/internal/model"
	"github.com/vk/componentry/internal/validate"
)

// ErrDuplicateID is returned when differing content is submitted for an
// already-registered component id.
var ErrDuplicateID = errors.New("component id already registered with different content")

// entry pairs the decoded record with the composed value it was decoded
// from. The composed value is what idempotency comparisons run against.
type entry struct {
	record   *model.ComponentRecord
	composed cty.Value
}

// Registry composes, validates and stores component records for one
// generation run.
type Registry struct {
	store     *fragment.Store
	validator *validate.Validator

	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty registry bound to a fragment store and validator.
func New(store *fragment.Store, validator *validate.Validator) *Registry {
	return &Registry{
		store:     store,
		validator: validator,
		entries:   make(map[string]*entry),
	}
}

// Register composes and validates one declaration and inserts the result.
//
// The returned report is non-nil whenever composition succeeded; callers must
// check Report.Valid; an invalid report means the record was rejected and
// the registry was not mutated. A non-nil error covers composition failures
// (unknown fragment, missing argument) and duplicate-id conflicts.
func (r *Registry) Register(ctx context.Context, decl *config.Declaration) (*validate.Report, error) {
	composed, err := r.composeDeclaration(decl)
	if err != nil {
		return nil, err
	}

	report := r.validator.Validate(decl.ID, composed)
	if !report.Valid() {
		ctxlog.FromContext(ctx).Debug("Component record rejected.", "id", decl.ID, "violations", len(report.Violations))
		return report, nil
	}

	record, err := model.DecodeComponent(decl.ID, composed)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", decl.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[decl.ID]; ok {
		if existing.composed.RawEquals(composed) {
			// Identical resubmission is a no-op.
			return report, nil
		}
		return nil, fmt.Errorf("component %q: %w", decl.ID, ErrDuplicateID)
	}
	r.entries[decl.ID] = &entry{record: record, composed: composed}

	ctxlog.FromContext(ctx).Debug("Component record registered.", "id", decl.ID)
	return report, nil
}

// Replace re-composes and re-validates a declaration and swaps it in for its
// id, regardless of what is registered there. The swap only happens on a
// clean report.
func (r *Registry) Replace(ctx context.Context, decl *config.Declaration) (*validate.Report, error) {
	composed, err := r.composeDeclaration(decl)
	if err != nil {
		return nil, err
	}

	report := r.validator.Validate(decl.ID, composed)
	if !report.Valid() {
		return report, nil
	}

	record, err := model.DecodeComponent(decl.ID, composed)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", decl.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[decl.ID] = &entry{record: record, composed: composed}

	ctxlog.FromContext(ctx).Debug("Component record replaced.", "id", decl.ID)
	return report, nil
}

// composeDeclaration resolves the declaration's fragment references and
// deep-merges them into the base, in document order.
func (r *Registry) composeDeclaration(decl *config.Declaration) (cty.Value, error) {
	overlays := make([]cty.Value, 0, len(decl.Uses))
	for _, use := range decl.Uses {
		resolved, err := r.store.Resolve(use.Fragment, use.Args)
		if err != nil {
			return cty.NilVal, fmt.Errorf("component %q: %w", decl.ID, err)
		}
		overlays = append(overlays, compose.PathValue(use.At, resolved))
	}
	return compose.Compose(decl.Base, overlays...), nil
}

// Get returns the registered record for an id.
func (r *Registry) Get(id string) (*model.ComponentRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.record, true
}

// List returns every registered record, sorted by id.
func (r *Registry) List() []*model.ComponentRecord {
	return r.Filter(func(*model.ComponentRecord) bool { return true })
}

// Filter returns the records matching the predicate, sorted by id.
func (r *Registry) Filter(keep func(*model.ComponentRecord) bool) []*model.ComponentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.ComponentRecord, 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e.record) {
			records = append(records, e.record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// Snapshot returns the id-to-record mapping as a plain map for renderers.
func (r *Registry) Snapshot() map[string]*model.ComponentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]*model.ComponentRecord, len(r.entries))
	for id, e := range r.entries {
		snapshot[id] = e.record
	}
	return snapshot
}

// Len reports the number of registered records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
