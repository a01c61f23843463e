package visitquery

// VisitsPageSize is the number of visits shown per page.
const VisitsPageSize = 5

// Pager slices a result list into fixed-size pages. It is not safe for
// concurrent use.
type Pager[T any] struct {
	size  int
	index int
	items []T
}

func NewPager[T any](size int) *Pager[T] {
	if size <= 0 {
		size = VisitsPageSize
	}
	return &Pager[T]{size: size}
}

// Reset replaces the items and returns to the first page.
func (p *Pager[T]) Reset(items []T) {
	p.items = items
	p.index = 0
}

func (p *Pager[T]) Index() int { return p.index }
func (p *Pager[T]) Size() int  { return p.size }
func (p *Pager[T]) Total() int { return len(p.items) }

// Page returns the items of the current page, possibly none.
func (p *Pager[T]) Page() []T {
	start := p.index * p.size
	if start >= len(p.items) {
		return []T{}
	}
	end := min(start+p.size, len(p.items))
	return p.items[start:end]
}

func (p *Pager[T]) HasNext() bool { return (p.index+1)*p.size < len(p.items) }
func (p *Pager[T]) HasPrev() bool { return p.index > 0 }

// Next moves forward one page. It reports false and stays put on the last
// page.
func (p *Pager[T]) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.index++
	return true
}

// Prev moves back one page. It reports false and stays put on the first
// page.
func (p *Pager[T]) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.index--
	return true
}

// Seek jumps to page i, clamped to the existing pages.
func (p *Pager[T]) Seek(i int) {
	last := 0
	if len(p.items) > 0 {
		last = (len(p.items) - 1) / p.size
	}
	p.index = max(0, min(i, last))
}
