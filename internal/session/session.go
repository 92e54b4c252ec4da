// Package session holds the state of the service currently being configured.
// A Session is created when a service is selected and dropped when another
// one is chosen; nothing in it is shared between sessions except the
// expansion tracker, which carries its structure baseline forward.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"xroadfields/internal/fields"
	"xroadfields/internal/model"
)

var (
	// ErrBusy is returned when an action of the same kind is still in flight.
	ErrBusy = errors.New("action already in progress")
	// ErrStale is returned for results that belong to a previous session.
	ErrStale = errors.New("result belongs to a previous service")
)

// Action identifies a kind of asynchronous user action.
type Action int

const (
	ActionLoad Action = iota
	ActionSave
	ActionSend
)

func (a Action) String() string {
	switch a {
	case ActionLoad:
		return "load"
	case ActionSave:
		return "save"
	case ActionSend:
		return "send"
	default:
		return "unknown"
	}
}

// Sink receives the leaf-field configuration of a service on save.
type Sink interface {
	SaveFields(ctx context.Context, service string, fields []model.FieldRecord) error
}

// Session is the configuration context of one selected service.
type Session struct {
	ID         string
	Service    string
	Generation uint64

	Endpoint    string
	InputParams []model.InputParam
	Params      map[string]string

	Store     *fields.Store
	Expansion *fields.Expansion
	Query     string

	Response *model.RequestResult

	inFlight map[Action]bool
	log      *slog.Logger
}

// Open creates the session for a freshly loaded service. When prev is not
// nil its expansion tracker is reused, so expansion state is kept if the new
// service has exactly the same field paths.
func Open(prev *Session, service string, sf model.ServiceFields) *Session {
	expansion := fields.NewExpansion()
	var gen uint64 = 1
	if prev != nil {
		expansion = prev.Expansion
		gen = prev.Generation + 1
	}

	s := &Session{
		ID:          uuid.NewString(),
		Service:     service,
		Generation:  gen,
		InputParams: sf.InputParams,
		Params:      make(map[string]string, len(sf.InputParams)),
		Store:       fields.NewStore(sf.Fields),
		Expansion:   expansion,
		inFlight:    make(map[Action]bool),
	}
	if sf.Endpoint != nil {
		s.Endpoint = sf.Endpoint.Endpoint
	}
	for _, p := range sf.InputParams {
		s.Params[p.Name] = ""
	}
	s.log = slog.Default().With("session_id", s.ID, "service", service)

	reset := s.Expansion.OnStructureChange(s.Store.Records())
	s.log.Info("session opened", "fields", s.Store.Len(), "generation", gen, "expansion_reset", reset, "expanded", s.Expansion.Len())
	return s
}

// Reload replaces the field records of the current service. Expansion state
// is kept unless the set of paths changed.
func (s *Session) Reload(records []model.FieldRecord) {
	s.Store.ReplaceAll(records)
	if s.Expansion.OnStructureChange(s.Store.Records()) {
		s.log.Debug("field structure changed, expansion reset")
	}
}

// Matches reports whether an async result tagged with service and gen still
// belongs to this session.
func (s *Session) Matches(service string, gen uint64) bool {
	return s != nil && s.Service == service && s.Generation == gen
}

// Check is Matches as an error: it returns ErrStale when the result does not
// belong to this session.
func (s *Session) Check(service string, gen uint64) error {
	if !s.Matches(service, gen) {
		return fmt.Errorf("%s generation %d: %w", service, gen, ErrStale)
	}
	return nil
}

// Begin marks an action as in flight. It fails with ErrBusy if an action of
// the same kind has not ended yet; different kinds do not block each other.
func (s *Session) Begin(a Action) error {
	if s.inFlight[a] {
		return fmt.Errorf("%s: %w", a, ErrBusy)
	}
	s.inFlight[a] = true
	return nil
}

// End clears the in-flight mark of an action.
func (s *Session) End(a Action) {
	delete(s.inFlight, a)
}

// Busy reports whether an action of the given kind is in flight.
func (s *Session) Busy(a Action) bool {
	return s.inFlight[a]
}

// Tree returns the unfiltered traversal for the current expansion state.
func (s *Session) Tree() []model.TraversalEntry {
	return fields.Build(s.Store, s.Expansion)
}

// Visible returns the traversal narrowed by the current search query.
func (s *Session) Visible() []model.TraversalEntry {
	return fields.Filter(s.Tree(), s.Query)
}

// Stats summarises the visible tree for the status line.
func (s *Session) Stats() fields.Stats {
	return fields.Summarize(s.Store, s.Visible())
}

// SetQuery replaces the search query.
func (s *Session) SetQuery(q string) {
	s.Query = q
}

// ToggleSelected applies a selection change with cascade semantics.
func (s *Session) ToggleSelected(path string, selected bool) error {
	return fields.ToggleSelected(s.Store, path, selected)
}

// ToggleSensitive flips the sensitive flag of a leaf field.
func (s *Session) ToggleSensitive(path string) error {
	return fields.ToggleSensitive(s.Store, path)
}

// SelectAll selects every record.
func (s *Session) SelectAll() {
	fields.SelectAll(s.Store)
}

// DeselectAll clears every record.
func (s *Session) DeselectAll() {
	fields.DeselectAll(s.Store)
}

// ToggleExpanded opens or closes a node.
func (s *Session) ToggleExpanded(path string) bool {
	return s.Expansion.Toggle(path)
}

// SetExpanded opens or closes a node regardless of its current state.
func (s *Session) SetExpanded(path string, open bool) {
	s.Expansion.Set(path, open)
}

// ExpandAll opens every node with children.
func (s *Session) ExpandAll() {
	s.Expansion.ExpandAll(s.Store)
}

// CollapseAll closes every node.
func (s *Session) CollapseAll() {
	s.Expansion.CollapseAll()
}

// SetParam stores the value of a request parameter.
func (s *Session) SetParam(name, value string) {
	s.Params[name] = value
}

// RequestParams returns the parameters to send, without empty values.
func (s *Session) RequestParams() map[string]string {
	out := make(map[string]string, len(s.Params))
	for k, v := range s.Params {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// SetResponse records the outcome of a test request. A nil result clears
// the previous response.
func (s *Session) SetResponse(r *model.RequestResult) {
	s.Response = r
}

// SaveRequest is the snapshot handed to the configuration sink.
type SaveRequest struct {
	Service    string
	Generation uint64
	Fields     []model.FieldRecord
}

// SaveRequest snapshots the leaf records of the store.
func (s *Session) SaveRequest() SaveRequest {
	return SaveRequest{
		Service:    s.Service,
		Generation: s.Generation,
		Fields:     s.Store.LeafRecords(),
	}
}

// Submit hands the snapshot to sink.
func (r SaveRequest) Submit(ctx context.Context, sink Sink) error {
	if err := sink.SaveFields(ctx, r.Service, r.Fields); err != nil {
		return fmt.Errorf("save %s: %w", r.Service, err)
	}
	return nil
}

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger {
	return s.log
}
