package services

import (
	"testing"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

func TestPagerTotalPages(t *testing.T) {
	tests := []struct {
		total int
		pages int
	}{
		{0, 1},
		{1, 1},
		{19, 1},
		{20, 1},
		{21, 2},
		{40, 2},
		{41, 3},
		{45, 3},
	}

	for _, tt := range tests {
		p := NewPager()
		p.SetTotal(tt.total)
		if got := p.TotalPages(); got != tt.pages {
			t.Errorf("total %d: expected %d pages, got %d", tt.total, tt.pages, got)
		}
	}
}

func TestPagerClampsOnShrinkingTotal(t *testing.T) {
	p := NewPager()
	p.SetTotal(100) // 5 pages
	p.SetPage(5)

	// Shrinking the set snaps to the new last page, not to page 1.
	p.SetTotal(45)
	if p.Current != 3 {
		t.Errorf("Expected page 3 after shrink, got %d", p.Current)
	}

	p.SetTotal(0)
	if p.Current != 1 {
		t.Errorf("Expected page 1 for empty set, got %d", p.Current)
	}
}

func TestPagerSetPageClamps(t *testing.T) {
	p := NewPager()
	p.SetTotal(45)

	p.SetPage(99)
	if p.Current != 3 {
		t.Errorf("Expected clamp to last page 3, got %d", p.Current)
	}

	p.SetPage(-5)
	if p.Current != 1 {
		t.Errorf("Expected clamp to page 1, got %d", p.Current)
	}
}

func TestPagerBoundaryNavigation(t *testing.T) {
	p := NewPager()
	p.SetTotal(45) // 3 pages

	p.Prev()
	if p.Current != 1 {
		t.Errorf("Prev on page 1 must be a no-op, got %d", p.Current)
	}

	p.Next()
	p.Next()
	if p.Current != 3 {
		t.Errorf("Expected page 3, got %d", p.Current)
	}

	p.Next()
	if p.Current != 3 {
		t.Errorf("Next on last page must be a no-op, got %d", p.Current)
	}
}

func TestPagerRange(t *testing.T) {
	tests := []struct {
		total int
		page  int
		start int
		end   int
	}{
		{0, 1, 0, 0},
		{45, 1, 1, 20},
		{45, 2, 21, 40},
		{45, 3, 41, 45},
		{5, 1, 1, 5},
	}

	for _, tt := range tests {
		p := NewPager()
		p.SetTotal(tt.total)
		p.SetPage(tt.page)
		start, end := p.Range()
		if start != tt.start || end != tt.end {
			t.Errorf("total %d page %d: expected range [%d, %d], got [%d, %d]",
				tt.total, tt.page, tt.start, tt.end, start, end)
		}
	}
}

func TestPagerSlice(t *testing.T) {
	records := make([]models.Incident, 45)
	for i := range records {
		records[i].ID = uint(i + 1)
	}

	p := NewPager()
	p.SetTotal(len(records))

	page := p.Slice(records)
	if len(page) != 20 || page[0].ID != 1 || page[19].ID != 20 {
		t.Errorf("Expected records 1..20 on page 1, got %d records", len(page))
	}

	p.SetPage(3)
	page = p.Slice(records)
	if len(page) != 5 || page[0].ID != 41 || page[4].ID != 45 {
		t.Errorf("Expected records 41..45 on page 3, got %d records", len(page))
	}

	page = p.Slice(nil)
	if len(page) != 0 {
		t.Errorf("Expected empty slice for no records, got %d", len(page))
	}

	// Reset after a filter change lands back on page 1.
	p.Reset()
	if p.Current != 1 {
		t.Errorf("Expected page 1 after reset, got %d", p.Current)
	}
}
