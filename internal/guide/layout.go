package guide

// Vertical positions are millimetres from the top of an A4 page.
const (
	topMargin = 20.0
	summaryY  = 50.0
	footerY   = 280.0

	checklistBreak   = 270.0
	instructionBreak = 260.0
	tipsBreak        = 265.0
	tipsNewPageAfter = 200.0

	instructionWidth = 160.0
	tipWidth         = 162.0
)

// Kind identifies what a placement draws.
type Kind int

const (
	KindSummaryHeading Kind = iota
	KindSummaryRow
	KindChecklistHeading
	KindChecklistItem
	KindInstructionsHeading
	KindInstruction
	KindTipsHeading
	KindTip
	KindFooter
)

// Placement is one positioned block. Index refers into the matching Guide
// slice; Lines holds the wrapped text for instructions and tips.
type Placement struct {
	Kind  Kind
	Index int
	Page  int
	Y     float64
	Lines []string
}

// Splitter wraps text to a width in millimetres.
type Splitter func(text string, width float64) []string

// Pager tracks the current page and the vertical cursor.
type Pager struct {
	Page int
	Y    float64
}

// NewPager starts on page one at y.
func NewPager(y float64) *Pager {
	return &Pager{Page: 1, Y: y}
}

// Break moves to the top of a new page.
func (p *Pager) Break() {
	p.Page++
	p.Y = topMargin
}

// BreakPast breaks when the cursor is beyond limit and more blocks follow.
func (p *Pager) BreakPast(limit float64, more bool) bool {
	if p.Y > limit && more {
		p.Break()
		return true
	}
	return false
}

// Plan lays out the guide. The summary opens page one, instructions always
// start a page, and tips start a page when less than a third of the page
// remains. The footer sits at the bottom of the last page.
func Plan(g Guide, split Splitter) []Placement {
	var out []Placement
	p := NewPager(summaryY)
	place := func(k Kind, i int, lines []string) {
		out = append(out, Placement{Kind: k, Index: i, Page: p.Page, Y: p.Y, Lines: lines})
	}

	place(KindSummaryHeading, 0, nil)
	p.Y += 15
	for i := range g.Summary {
		place(KindSummaryRow, i, nil)
		p.Y += 9
	}

	p.Y += 15
	place(KindChecklistHeading, 0, nil)
	p.Y += 12
	for i := range g.Checklist {
		place(KindChecklistItem, i, nil)
		p.Y += 8
		p.BreakPast(checklistBreak, i < len(g.Checklist)-1)
	}

	p.Break()
	place(KindInstructionsHeading, 0, nil)
	p.Y += 15
	for i, inst := range g.Instructions {
		lines := split(inst.Description, instructionWidth)
		place(KindInstruction, i, lines)
		p.Y += 10 + float64(len(lines))*5
		p.BreakPast(instructionBreak, i < len(g.Instructions)-1)
	}

	if p.Y > tipsNewPageAfter {
		p.Break()
	} else {
		p.Y += 15
	}
	place(KindTipsHeading, 0, nil)
	p.Y += 12
	for i, tip := range g.Tips {
		lines := split(tip, tipWidth)
		place(KindTip, i, lines)
		p.Y += 12 + float64(max(0, len(lines)-1))*4
		p.BreakPast(tipsBreak, i < len(g.Tips)-1)
	}

	p.Y = footerY
	place(KindFooter, 0, nil)
	return out
}

// Pages reports how many pages a plan spans.
func Pages(plan []Placement) int {
	n := 0
	for _, pl := range plan {
		n = max(n, pl.Page)
	}
	return n
}
