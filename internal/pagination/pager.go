package pagination

// MaxVisible is the width of the page-number window.
const MaxVisible = 5

type Control struct {
	Page     int  `json:"page"`
	Disabled bool `json:"disabled"`
}

// Pager describes the pagination controls for one page of results.
type Pager struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Pages   []int   `json:"pages"`
	First   Control `json:"first"`
	Prev    Control `json:"prev"`
	Next    Control `json:"next"`
	Last    Control `json:"last"`
	// Visible is false when there is at most one page; nothing is drawn then.
	Visible bool `json:"visible"`
}

// New builds the controls for current (1-based) out of total pages.
// Up to MaxVisible pages are all shown; beyond that a window of exactly
// MaxVisible pages is centered on current and clamped to [1, total].
func New(current, total int) Pager {
	if total < 0 {
		total = 0
	}
	if current < 1 {
		current = 1
	}
	if total > 0 && current > total {
		current = total
	}

	p := Pager{Current: current, Total: total, Visible: total > 1}
	if !p.Visible {
		return p
	}

	start, end := 1, total
	if total > MaxVisible {
		start = max(1, current-MaxVisible/2)
		end = min(total, start+MaxVisible-1)
		if end-start+1 < MaxVisible {
			start = max(1, end-MaxVisible+1)
		}
	}
	p.Pages = make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, i)
	}

	atFirst, atLast := current == 1, current == total
	p.First = Control{Page: 1, Disabled: atFirst}
	p.Prev = Control{Page: max(1, current-1), Disabled: atFirst}
	p.Next = Control{Page: min(total, current+1), Disabled: atLast}
	p.Last = Control{Page: total, Disabled: atLast}
	return p
}
