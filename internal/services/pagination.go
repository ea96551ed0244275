package services

import "github.com/Blackfireoff/Incident-Factory/internal/models"

// DefaultPageSize is the fixed number of records shown per page.
const DefaultPageSize = 20

// Pager derives page count, current-page validity and the visible row range
// from a total count and a fixed page size. All operations keep the current
// page inside [1, TotalPages].
type Pager struct {
	PageSize int
	Total    int
	Current  int
}

func NewPager() Pager {
	return Pager{PageSize: DefaultPageSize, Current: 1}
}

// TotalPages is ceil(Total/PageSize) with a floor of one page: an empty
// result still renders as "page 1 of 1".
func (p Pager) TotalPages() int {
	if p.Total <= 0 {
		return 1
	}
	pages := (p.Total + p.PageSize - 1) / p.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// SetTotal updates the total count and snaps the current page back into
// range. When the result set shrinks below the selected page, the pager
// lands on the new last valid page, not on page 1.
func (p *Pager) SetTotal(total int) {
	p.Total = total
	p.clamp()
}

// SetPage selects a page, clamped into [1, TotalPages].
func (p *Pager) SetPage(page int) {
	p.Current = page
	p.clamp()
}

// Reset returns to the first page. Called whenever a filter or search input
// changes.
func (p *Pager) Reset() {
	p.Current = 1
}

// Next advances one page; a no-op on the last page.
func (p *Pager) Next() {
	p.SetPage(p.Current + 1)
}

// Prev goes back one page; a no-op on page 1.
func (p *Pager) Prev() {
	p.SetPage(p.Current - 1)
}

func (p *Pager) clamp() {
	if last := p.TotalPages(); p.Current > last {
		p.Current = last
	}
	if p.Current < 1 {
		p.Current = 1
	}
}

// Range reports the 1-indexed inclusive [start, end] of the visible rows for
// "Showing X to Y of Z" display. Both bounds are 0 when the total is 0.
func (p Pager) Range() (int, int) {
	if p.Total == 0 {
		return 0, 0
	}
	start := (p.Current-1)*p.PageSize + 1
	end := p.Current * p.PageSize
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// Slice returns the visible window of the filtered record set.
func (p Pager) Slice(records []models.Incident) []models.Incident {
	start := (p.Current - 1) * p.PageSize
	if start >= len(records) {
		return nil
	}
	end := start + p.PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
