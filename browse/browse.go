// Package browse is what a presentation layer binds to: the current page of
// saved decks, the selected deck, the pending delete, and the mutations that
// go through the sync controller.
package browse

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"git.sr.ht/~jackmordaunt/decks"
	"git.sr.ht/~jackmordaunt/decks/storage/lazy"
)

var (
	// ErrNotHydrated is returned by mutations issued before Open completed.
	ErrNotHydrated = errors.New("decks not loaded yet")
	// ErrNoSelection is returned when an action needs a selected deck.
	ErrNoSelection = errors.New("no deck selected")
)

// Session is the single browsing session over the saved decks.
//
// It is constructed once and injected into the presenter. The page is clamped
// back into range after every mutation that changes the collection size.
type Session struct {
	ctrl *lazy.Controller
	log  *zap.Logger

	mu       sync.Mutex
	pager    *decks.Pager
	sel      decks.Selection
	hydrated bool
}

// New creates a session showing pageSize decks per page.
func New(ctrl *lazy.Controller, pageSize int, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		ctrl:  ctrl,
		log:   log,
		pager: decks.NewPager(pageSize),
	}
}

// Open hydrates the registry from the durable store.
//
// A failed read is logged and returned, but the session still opens on
// whatever the registry holds so the user is never locked out.
func (s *Session) Open(ctx context.Context) error {
	err := s.ctrl.Hydrate(ctx)
	if err != nil {
		s.log.Warn("loading saved decks", zap.Error(err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true
	s.sel.Reset()
	s.pager.Clamp(s.ctrl.Cache.Len())
	return err
}

// Hydrated reports whether Open has completed.
func (s *Session) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Page returns the decks visible on the current page.
func (s *Session) Page() []decks.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, _ := decks.Paginate(s.ctrl.Cache.List(), s.pager.Size(), s.pager.Page())
	return page
}

// PageCount is the number of pages. Zero when there are no decks.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Count(s.ctrl.Cache.Len())
}

// PageNumber is the current 1-based page.
func (s *Session) PageNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Page()
}

// NextPage advances a page. No-op on the last page.
func (s *Session) NextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Next(s.ctrl.Cache.Len())
}

// PreviousPage goes back a page. No-op on the first page.
func (s *Session) PreviousPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Previous()
}

// HasNext drives the visibility of the "next" affordance.
func (s *Session) HasNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.HasNext(s.ctrl.Cache.Len())
}

// HasPrevious drives the visibility of the "previous" affordance.
func (s *Session) HasPrevious() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.HasPrevious()
}

// ShowPagination reports whether there is more than one page worth of decks.
func (s *Session) ShowPagination() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.ShowControls(s.ctrl.Cache.Len())
}

// Indicator renders the page position as "current / total".
func (s *Session) Indicator() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Indicator(s.ctrl.Cache.Len())
}

// Len is the number of saved decks.
func (s *Session) Len() int {
	return s.ctrl.Cache.Len()
}

// Empty drives the "create a new deck" affordance.
func (s *Session) Empty() bool {
	return s.ctrl.Cache.Empty()
}

// ShowClear reports whether clearing makes sense.
func (s *Session) ShowClear() bool {
	return !s.Empty()
}

// Key returns the stable list key for a row.
func (s *Session) Key(d decks.Deck) string {
	return d.Key()
}

// Select opens the detail view for d.
func (s *Session) Select(d decks.Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Select(d)
}

// Toggle opens the detail view for d, or closes it if d is already shown.
func (s *Session) Toggle(d decks.Deck) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Toggle(d)
}

// Selected returns the deck in the detail view.
func (s *Session) Selected() (decks.Deck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Selected()
}

// Deselect closes the detail view.
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Deselect()
}

// RequestDelete asks for confirmation before deleting d.
func (s *Session) RequestDelete(d decks.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return ErrNotHydrated
	}
	s.sel.RequestDelete(d)
	return nil
}

// PendingDelete returns the deck awaiting confirmation.
func (s *Session) PendingDelete() (decks.Deck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Pending()
}

// ConfirmDelete removes the pending deck. Bool is false when nothing was
// pending or the deck was already gone.
func (s *Session) ConfirmDelete() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return false, ErrNotHydrated
	}
	d, ok := s.sel.Confirm()
	if !ok {
		return false, nil
	}
	removed := s.ctrl.Remove(d)
	s.sel.Forget(d.Name)
	s.pager.Clamp(s.ctrl.Cache.Len())
	return removed, nil
}

// CancelDelete clears the pending delete, leaving the decks untouched.
func (s *Session) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Cancel()
}

// Update renames d. An empty newName leaves the name alone.
func (s *Session) Update(d decks.Deck, newName string) (decks.Deck, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return d, false, ErrNotHydrated
	}
	renamed, ok := s.ctrl.Update(d, newName)
	if ok {
		s.sel.Follow(d.Name, renamed)
	}
	return renamed, ok, nil
}

// RenameSelected renames the deck shown in the detail view.
func (s *Session) RenameSelected(newName string) (decks.Deck, bool, error) {
	d, ok := s.Selected()
	if !ok {
		return decks.Deck{}, false, ErrNoSelection
	}
	return s.Update(d, newName)
}

// Add saves a newly built deck at the end of the collection.
func (s *Session) Add(d decks.Deck) (decks.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return d, ErrNotHydrated
	}
	return s.ctrl.Add(d)
}

// ClearAll discards every saved deck, in memory and on disk.
func (s *Session) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return ErrNotHydrated
	}
	s.ctrl.ClearAll()
	s.sel.Reset()
	s.pager.Clamp(0)
	return nil
}
