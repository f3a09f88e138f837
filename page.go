package decks

import "fmt"

// DefaultPageSize is the number of decks shown per page when none is configured.
const DefaultPageSize = 5

// PageCount returns the number of pages needed to show count decks.
// An empty collection has zero pages.
func PageCount(count, size int) int {
	if size < 1 {
		size = 1
	}
	if count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Paginate returns the decks visible on the given 1-based page along with the
// total number of pages.
// Pages outside [1, total] are empty.
func Paginate(list []Deck, size, page int) ([]Deck, int) {
	if size < 1 {
		size = 1
	}
	total := PageCount(len(list), size)
	if page < 1 || page > total {
		return nil, total
	}
	start := (page - 1) * size
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], total
}

// Pager tracks the visible page over a collection whose size changes between
// calls. The count is always supplied by the caller.
type Pager struct {
	size int
	page int
}

// NewPager allocates a pager on page 1.
// Non-positive sizes fall back to DefaultPageSize.
func NewPager(size int) *Pager {
	if size < 1 {
		size = DefaultPageSize
	}
	return &Pager{size: size, page: 1}
}

// Size is the number of decks per page.
func (p *Pager) Size() int {
	return p.size
}

// Page is the current 1-based page. Never less than 1.
func (p *Pager) Page() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// Count returns the number of pages for count decks.
func (p *Pager) Count(count int) int {
	return PageCount(count, p.size)
}

// HasNext reports whether there is a page after the current one.
func (p *Pager) HasNext(count int) bool {
	return p.Page() < p.Count(count)
}

// HasPrevious reports whether there is a page before the current one.
func (p *Pager) HasPrevious() bool {
	return p.Page() > 1
}

// Next advances one page. No-op on the last page.
func (p *Pager) Next(count int) bool {
	if !p.HasNext(count) {
		return false
	}
	p.page = p.Page() + 1
	return true
}

// Previous goes back one page. No-op on page 1.
func (p *Pager) Previous() bool {
	if !p.HasPrevious() {
		return false
	}
	p.page = p.Page() - 1
	return true
}

// Clamp pulls the current page back within range after the collection shrank.
func (p *Pager) Clamp(count int) {
	last := p.Count(count)
	if last < 1 {
		last = 1
	}
	if p.Page() > last {
		p.page = last
	}
}

// ShowControls reports whether pagination affordances are needed at all.
func (p *Pager) ShowControls(count int) bool {
	return count > p.size
}

// Indicator renders the position as "current / total".
func (p *Pager) Indicator(count int) string {
	return fmt.Sprintf("%d / %d", p.Page(), p.Count(count))
}
