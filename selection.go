package decks

// Selection holds the transient state gating edits and deletes: the deck shown
// in the detail view and the deck awaiting delete confirmation.
//
//	idle -> RequestDelete -> pending -> Confirm | Cancel -> idle
//
// Neither is ever persisted.
type Selection struct {
	selected *Deck
	pending  *Deck
}

// Select shows the deck in the detail view.
func (s *Selection) Select(d Deck) {
	d = d.clone()
	s.selected = &d
}

// Toggle selects the deck, or deselects it when it is already selected.
// Returns whether the detail view is now visible.
func (s *Selection) Toggle(d Deck) bool {
	if s.selected != nil && s.selected.Name == d.Name {
		s.selected = nil
		return false
	}
	s.Select(d)
	return true
}

// Selected returns the deck in the detail view.
func (s *Selection) Selected() (Deck, bool) {
	if s.selected == nil {
		return Deck{}, false
	}
	return s.selected.clone(), true
}

// Deselect closes the detail view.
func (s *Selection) Deselect() {
	s.selected = nil
}

// RequestDelete marks the deck as pending deletion, replacing any earlier
// request.
func (s *Selection) RequestDelete(d Deck) {
	d = d.clone()
	s.pending = &d
}

// Pending returns the deck awaiting confirmation.
func (s *Selection) Pending() (Deck, bool) {
	if s.pending == nil {
		return Deck{}, false
	}
	return s.pending.clone(), true
}

// Confirm clears the pending flag and hands back the deck to delete.
// Bool is false when nothing was pending.
func (s *Selection) Confirm() (Deck, bool) {
	d, ok := s.Pending()
	s.pending = nil
	return d, ok
}

// Cancel clears the pending flag, leaving everything else untouched.
func (s *Selection) Cancel() {
	s.pending = nil
}

// Forget drops any reference to the named deck, used once it no longer exists.
func (s *Selection) Forget(name string) {
	if s.selected != nil && s.selected.Name == name {
		s.selected = nil
	}
	if s.pending != nil && s.pending.Name == name {
		s.pending = nil
	}
}

// Follow keeps references pointing at a renamed deck.
func (s *Selection) Follow(oldName string, d Deck) {
	if s.selected != nil && s.selected.Name == oldName {
		s.Select(d)
	}
	if s.pending != nil && s.pending.Name == oldName {
		s.RequestDelete(d)
	}
}

// Reset returns to idle with nothing selected.
func (s *Selection) Reset() {
	s.selected = nil
	s.pending = nil
}
