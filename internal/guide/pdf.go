package guide

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{76, 175, 80}
	colorSecondary = rgb{46, 125, 50}
	colorAccent    = rgb{199, 156, 63}
	colorDark      = rgb{33, 33, 33}
	colorLight     = rgb{245, 245, 245}
	colorText      = rgb{60, 60, 60}

	badgeColors = map[string]rgb{
		"Beginner":     {76, 175, 80},
		"Intermediate": {255, 152, 0},
		"Advanced":     {156, 39, 176},
	}
)

// pdfWriter draws placements onto an fpdf document.
type pdfWriter struct {
	doc *fpdf.Fpdf
	tr  func(string) string
	g   Guide
}

func (w *pdfWriter) fill(c rgb)  { w.doc.SetFillColor(c.r, c.g, c.b) }
func (w *pdfWriter) color(c rgb) { w.doc.SetTextColor(c.r, c.g, c.b) }

func (w *pdfWriter) font(style string, size float64) {
	w.doc.SetFont("Helvetica", style, size)
}

func (w *pdfWriter) text(x, y float64, s string) {
	w.doc.Text(x, y, w.tr(s))
}

// textAligned draws s anchored at x: "R" right, "C" centred.
func (w *pdfWriter) textAligned(x, y float64, s, align string) {
	s = w.tr(s)
	width := w.doc.GetStringWidth(s)
	switch align {
	case "R":
		x -= width
	case "C":
		x -= width / 2
	}
	w.doc.Text(x, y, s)
}

// split wraps text in the core font encoding. SplitText indexes its width
// table by rune, so each translated byte is widened to a rune of equal value
// and narrowed back afterwards. The returned lines are already translated.
func (w *pdfWriter) split(text string, width float64) []string {
	w.font("", 9)
	encoded := w.tr(text)
	widened := make([]rune, len(encoded))
	for i := 0; i < len(encoded); i++ {
		widened[i] = rune(encoded[i])
	}
	lines := w.doc.SplitText(string(widened), width)
	for i, line := range lines {
		narrowed := make([]byte, 0, len(line))
		for _, r := range line {
			narrowed = append(narrowed, byte(r))
		}
		lines[i] = string(narrowed)
	}
	return lines
}

func (w *pdfWriter) heading(y float64, label string, bg, fg rgb) {
	w.fill(bg)
	w.doc.Rect(15, y-7, 180, 10, "F")
	w.font("B", 16)
	w.color(fg)
	w.text(20, y, label)
}

func (w *pdfWriter) header() {
	w.fill(colorPrimary)
	w.doc.Rect(0, 0, 210, 35, "F")
	w.font("B", 22)
	w.doc.SetTextColor(255, 255, 255)
	w.text(15, 18, Title)
	w.font("", 11)
	w.text(35, 26, Subtitle)
	w.font("", 9)
	w.textAligned(150, 15, w.g.GeneratedLabel(), "R")

	badge := w.g.BadgeLabel()
	w.fill(badgeColors[badge])
	w.doc.RoundedRect(130, 20, 50, 8, 2, "1234", "F")
	w.doc.SetTextColor(255, 255, 255)
	w.font("B", 10)
	w.textAligned(155, 25.5, badge, "C")
}

func (w *pdfWriter) draw(pl Placement) {
	g := w.g
	switch pl.Kind {
	case KindSummaryHeading:
		w.heading(pl.Y, "SETUP SUMMARY", colorLight, colorSecondary)
	case KindSummaryRow:
		row := g.Summary[pl.Index]
		if pl.Index%2 == 0 {
			w.doc.SetFillColor(250, 250, 250)
			w.doc.Rect(15, pl.Y-5, 180, 9, "F")
		}
		w.font("B", 10)
		w.color(colorText)
		w.text(20, pl.Y, row.Label+":")
		w.font("", 10)
		w.color(colorDark)
		w.text(70, pl.Y, row.Value)
	case KindChecklistHeading:
		w.heading(pl.Y, "EQUIPMENT CHECKLIST", colorLight, colorSecondary)
	case KindChecklistItem:
		w.doc.SetDrawColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
		w.doc.SetLineWidth(0.5)
		w.doc.Rect(18, pl.Y-3, 4, 4, "D")
		w.font("", 10)
		w.color(colorText)
		w.text(28, pl.Y, g.Checklist[pl.Index])
	case KindInstructionsHeading:
		w.heading(pl.Y, "STEP-BY-STEP SETUP INSTRUCTIONS", colorLight, colorSecondary)
	case KindInstruction:
		inst := g.Instructions[pl.Index]
		w.fill(colorAccent)
		w.doc.Circle(20, pl.Y-1, 4, "F")
		w.doc.SetTextColor(255, 255, 255)
		w.font("B", 10)
		w.textAligned(20, pl.Y+1, inst.Step, "C")
		w.color(colorDark)
		w.font("B", 11)
		w.text(28, pl.Y, inst.Title)
		w.font("", 9)
		w.color(colorText)
		for i, line := range pl.Lines {
			w.doc.Text(28, pl.Y+5+float64(i)*5, line)
		}
	case KindTipsHeading:
		w.heading(pl.Y, g.TipsHeading, colorAccent, rgb{255, 255, 255})
	case KindTip:
		w.doc.SetFillColor(255, 252, 245)
		w.doc.SetDrawColor(colorAccent.r, colorAccent.g, colorAccent.b)
		w.doc.SetLineWidth(0.5)
		w.doc.RoundedRect(18, pl.Y-5, 174, 10, 2, "1234", "FD")
		w.color(colorAccent)
		w.font("B", 10)
		w.text(22, pl.Y, "*")
		w.font("", 9)
		w.color(colorDark)
		for i, line := range pl.Lines {
			w.doc.Text(28, pl.Y+float64(i)*4, line)
		}
	case KindFooter:
		w.fill(colorPrimary)
		w.doc.Rect(0, pl.Y, 210, 17, "F")
		w.doc.SetTextColor(255, 255, 255)
		w.font("I", 9)
		w.textAligned(105, pl.Y+7, FooterTitle, "C")
		w.font("", 8)
		w.textAligned(105, pl.Y+12, FooterByline, "C")
	}
}

// RenderPDF writes the guide as an A4 PDF.
func RenderPDF(out io.Writer, g Guide) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(Title, true)
	doc.SetCreator(FooterByline, true)
	w := &pdfWriter{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor(""), g: g}

	plan := Plan(g, w.split)
	doc.AddPage()
	w.header()
	page := 1
	for _, pl := range plan {
		for page < pl.Page {
			doc.AddPage()
			page++
		}
		w.draw(pl)
	}
	if err := doc.Output(out); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
