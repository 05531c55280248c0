package screen

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"ainews-console/internal/backend"
	"ainews-console/internal/dialog"
	"ainews-console/internal/form"
	"ainews-console/internal/listing"
	"ainews-console/internal/modal"

	"go.uber.org/zap"
)

// Gateway is the part of the backend client a screen uses.
type Gateway interface {
	List(ctx context.Context, path string, query url.Values, token string) ([]backend.Record, error)
	ListPage(ctx context.Context, path string, query url.Values, token string) (backend.Page, error)
	Create(ctx context.Context, collection string, body any, token string) (backend.Record, error)
	Update(ctx context.Context, collection, id string, body any, token string) (backend.Record, error)
	Delete(ctx context.Context, collection, id string, token string) error
	Action(ctx context.Context, collection, id, action string, body any, token string) (backend.Record, error)
	Download(ctx context.Context, path string, token string) (*backend.Blob, error)
}

// TokenSource yields the bearer token for the screen family.
type TokenSource interface {
	Token() (string, bool)
}

type pendingDelete struct {
	id       string
	dialogID string
}

// Screen is the live state of one resource screen in one session. All
// methods are safe for concurrent use; network calls never hold the lock.
type Screen struct {
	def     Definition
	gw      Gateway
	tokens  TokenSource
	dialogs dialog.Presenter
	log     *zap.Logger

	mu         sync.Mutex
	working    []backend.Record
	total      int
	loaded     bool
	loading    bool
	stale      bool
	generation uint64
	query      listing.Query
	modal      *modal.Controller
	draft      form.State
	// formGen changes whenever a form is opened or dropped; a submit only
	// closes the form it was started from.
	formGen    uint64
	pending    *pendingDelete
}

func New(def Definition, gw Gateway, tokens TokenSource, dialogs dialog.Presenter, log *zap.Logger) (*Screen, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	var tabs []string
	if def.Schema != nil {
		tabs = def.Schema.Tabs()
	}
	return &Screen{
		def:     def,
		gw:      gw,
		tokens:  tokens,
		dialogs: dialogs,
		log:     log.With(zap.String("screen", def.Name)),
		query:   listing.NewQuery(),
		modal:   modal.NewController(tabs),
	}, nil
}

func (s *Screen) Definition() Definition { return s.def }

func (s *Screen) token() string {
	if s.tokens == nil {
		return ""
	}
	t, _ := s.tokens.Token()
	return t
}

// Refresh fetches the collection. On failure the previous working set stays,
// the screen is marked stale and one error dialog is queued. A response that
// arrives after a newer refresh started is dropped.
func (s *Screen) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	query := s.def.listQuery(s.query)
	s.mu.Unlock()

	var (
		records []backend.Record
		total   int
		err     error
	)
	if s.def.ServerQuery {
		var page backend.Page
		page, err = s.gw.ListPage(ctx, s.def.Collection, query, s.token())
		records, total = page.Items, page.Total
	} else {
		records, err = s.gw.List(ctx, s.def.Collection, query, s.token())
		total = len(records)
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug("dropping superseded list response", zap.Uint64("generation", gen))
		return nil
	}
	s.loading = false
	if err != nil {
		s.stale = s.loaded
		s.mu.Unlock()
		s.log.Warn("list failed", zap.Error(err))
		s.dialogs.Show(dialog.Error("Failed to load "+strings.ToLower(s.def.title()), backend.Message(err)))
		return err
	}
	s.working = records
	s.total = total
	s.loaded = true
	s.stale = false
	s.mu.Unlock()
	s.log.Debug("list loaded", zap.Int("count", len(records)))
	return nil
}

// EnsureLoaded refreshes only when nothing has been fetched yet.
func (s *Screen) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	need := !s.loaded && !s.loading
	s.mu.Unlock()
	if !need {
		return nil
	}
	return s.Refresh(ctx)
}

// Records returns the working set as last fetched.
func (s *Screen) Records() []backend.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]backend.Record(nil), s.working...)
}

// Count is the size of the whole collection as the backend reported it.
func (s *Screen) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Filtered returns every record matching the current query, across pages.
func (s *Screen) Filtered() []backend.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.def.ServerQuery {
		return append([]backend.Record(nil), s.working...)
	}
	return listing.Filter(s.working, s.def.Listing, s.query)
}

// SetQuery replaces the filter state. Server-queried screens refetch.
func (s *Screen) SetQuery(ctx context.Context, update func(q listing.Query) listing.Query) error {
	s.mu.Lock()
	s.query = update(s.query)
	server := s.def.ServerQuery
	s.mu.Unlock()
	if server {
		return s.Refresh(ctx)
	}
	return nil
}

func (s *Screen) SetSearch(ctx context.Context, search string) error {
	return s.SetQuery(ctx, func(q listing.Query) listing.Query { return q.WithSearch(search) })
}

func (s *Screen) SetFilter(ctx context.Context, field, value string) error {
	if !s.def.HasFilter(field) {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, field)
	}
	return s.SetQuery(ctx, func(q listing.Query) listing.Query { return q.WithFilter(field, value) })
}

func (s *Screen) SetSort(ctx context.Context, field, dir string) error {
	return s.SetQuery(ctx, func(q listing.Query) listing.Query { return q.WithSort(field, dir) })
}

func (s *Screen) SetPage(ctx context.Context, page int) error {
	return s.SetQuery(ctx, func(q listing.Query) listing.Query { return q.WithPage(page) })
}

func (s *Screen) findLocked(id string) (backend.Record, error) {
	for _, r := range s.working {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// OpenAdd shows the add modal with a fresh empty draft.
func (s *Screen) OpenAdd() error {
	if s.def.ReadOnly {
		return ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.modal.OpenAdd(); err != nil {
		return err
	}
	s.draft = s.def.Schema.Empty()
	s.formGen++
	return nil
}

// OpenEdit shows the edit modal hydrated from the record with id.
func (s *Screen) OpenEdit(id string) error {
	if s.def.ReadOnly {
		return ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.findLocked(id)
	if err != nil {
		return err
	}
	if err := s.modal.OpenEdit(rec); err != nil {
		return err
	}
	s.draft = s.def.Schema.Hydrate(rec)
	s.formGen++
	return nil
}

func (s *Screen) OpenView(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.findLocked(id)
	if err != nil {
		return err
	}
	if err := s.modal.OpenView(rec); err != nil {
		return err
	}
	s.draft = nil
	s.formGen++
	return nil
}

// EditFromView switches the view modal to editing the same record.
func (s *Screen) EditFromView() error {
	if s.def.ReadOnly {
		return ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.modal.EditFromView(); err != nil {
		return err
	}
	s.draft = s.def.Schema.Hydrate(s.modal.Selected())
	s.formGen++
	return nil
}

func (s *Screen) SetTab(tab string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal.SetTab(tab)
}

// SetFields applies edits to the draft. Either all values apply or none do.
func (s *Screen) SetFields(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrNoForm
	}
	next := s.draft.Clone()
	for path, v := range values {
		if err := s.def.Schema.Set(next, path, v); err != nil {
			return err
		}
	}
	s.draft = next
	return nil
}

// Cancel closes any modal and drops the draft without a request.
func (s *Screen) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal.Close()
	s.draft = nil
	s.formGen++
}

// Submit sends the draft: PUT when editing, POST when adding. On success the
// modal closes, a success dialog shows and the list is fetched once. On
// failure an error dialog shows and the modal and draft stay as they were.
func (s *Screen) Submit(ctx context.Context) error {
	s.mu.Lock()
	kind := s.modal.Kind()
	if s.draft == nil || (kind != modal.Add && kind != modal.Edit) {
		s.mu.Unlock()
		return ErrNoForm
	}
	draft := s.draft.Clone()
	id := s.modal.Selected().ID()
	gen := s.formGen
	s.mu.Unlock()

	if s.def.Prepare != nil {
		s.def.Prepare(draft)
	}
	if err := s.def.Schema.Validate(draft); err != nil {
		s.dialogs.Show(dialog.Warning("Missing required fields", err.Error()))
		return err
	}
	body, err := s.def.Schema.Unflatten(draft)
	if err != nil {
		return err
	}

	verb := "created"
	if kind == modal.Edit {
		verb = "updated"
		_, err = s.gw.Update(ctx, s.def.Collection, id, body, s.token())
	} else {
		_, err = s.gw.Create(ctx, s.def.Collection, body, s.token())
	}
	if err != nil {
		s.log.Warn("save failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		s.dialogs.Show(dialog.Error("Failed to save "+strings.ToLower(s.def.singular()), backend.Message(err)))
		return err
	}

	s.mu.Lock()
	if s.formGen == gen {
		s.modal.Close()
		s.draft = nil
		s.formGen++
	}
	s.mu.Unlock()

	s.log.Info("record saved", zap.String("kind", string(kind)), zap.String("id", id))
	s.dialogs.Show(dialog.Success(s.def.singular()+" "+verb, fmt.Sprintf("%s %s successfully.", s.def.singular(), verb)))
	s.refreshAfterWrite(ctx)
	return nil
}

// refreshAfterWrite reloads the list; a failure already surfaced as a dialog.
func (s *Screen) refreshAfterWrite(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.log.Debug("refresh after write failed", zap.Error(err))
	}
}

// PrepareDelete queues the confirmation dialog for id.
func (s *Screen) PrepareDelete(id string) (dialog.Dialog, error) {
	if s.def.ReadOnly {
		return dialog.Dialog{}, ErrReadOnly
	}
	s.mu.Lock()
	rec, err := s.findLocked(id)
	if err != nil {
		s.mu.Unlock()
		return dialog.Dialog{}, err
	}
	previous := s.pending
	s.mu.Unlock()

	if previous != nil {
		s.dialogs.Dismiss(previous.dialogID)
	}
	shown := s.dialogs.Show(s.def.deleteConfirm(rec))

	s.mu.Lock()
	// id is kept until confirmation, past the request that carried it
	s.pending = &pendingDelete{id: strings.Clone(id), dialogID: shown.ID}
	s.mu.Unlock()
	return shown, nil
}

// CancelDelete drops the pending confirmation without a request.
func (s *Screen) CancelDelete() {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p != nil {
		s.dialogs.Dismiss(p.dialogID)
	}
}

// ConfirmDelete deletes the record awaiting confirmation.
func (s *Screen) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return ErrNoPendingDelete
	}
	s.dialogs.Dismiss(p.dialogID)

	if err := s.gw.Delete(ctx, s.def.Collection, p.id, s.token()); err != nil {
		s.log.Warn("delete failed", zap.String("id", p.id), zap.Error(err))
		s.dialogs.Show(dialog.Error("Failed to delete "+strings.ToLower(s.def.singular()), backend.Message(err)))
		return err
	}
	s.log.Info("record deleted", zap.String("id", p.id))
	s.dialogs.Show(dialog.Success(s.def.singular()+" deleted", fmt.Sprintf("%s deleted successfully.", s.def.singular())))
	s.refreshAfterWrite(ctx)
	return nil
}

// RunAction performs a named record action. Download actions return the
// blob; post actions refresh the list on success.
func (s *Screen) RunAction(ctx context.Context, name, id string, input map[string]any) (*backend.Blob, error) {
	a, ok := s.def.action(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	s.mu.Lock()
	rec, err := s.findLocked(id)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if !a.availableFor(rec) {
		return nil, fmt.Errorf("%w: %s is not available for %s", ErrUnknownAction, name, id)
	}

	label := a.Label
	if label == "" {
		label = name
	}
	fail := func(err error) error {
		s.log.Warn("action failed", zap.String("action", name), zap.String("id", id), zap.Error(err))
		s.dialogs.Show(dialog.Error(label+" failed", backend.Message(err)))
		return err
	}
	success := a.Success
	if success == "" {
		success = label + " completed."
	}

	if a.Kind == ActionDownload {
		blob, err := s.gw.Download(ctx, a.Path(rec), s.token())
		if err != nil {
			return nil, fail(err)
		}
		s.dialogs.Show(dialog.Success(label, success))
		return blob, nil
	}

	var body any = input
	if a.Body != nil {
		body = a.Body(rec, input)
	}
	if _, err := s.gw.Action(ctx, s.def.Collection, id, name, body, s.token()); err != nil {
		return nil, fail(err)
	}
	s.log.Info("action done", zap.String("action", name), zap.String("id", id))
	s.dialogs.Show(dialog.Success(label, success))
	s.refreshAfterWrite(ctx)
	return nil, nil
}

// IsValidation reports whether err is a required-field failure.
func IsValidation(err error) bool {
	var v *form.ValidationError
	return errors.As(err, &v)
}
