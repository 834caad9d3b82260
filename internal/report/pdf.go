package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/vbonduro/vistoria/internal/summary"
)

// Page geometry in millimetres.
const (
	marginX        = 15.0
	topAfterBreak  = 20.0
	bottomMargin   = 25.0
	sectionTrigger = 40.0
	lineHeight     = 5.0
	cellPadding    = 1.5
	bodyFontSize   = 9.0
)

type Renderer struct {
	now      func() time.Time
	primary  string
	accent   string
	compress bool
	loc      *time.Location
}

type Option func(*Renderer)

// WithClock sets the time source used for document metadata and file names.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithBrand sets the two-tone wordmark of the header band. The first word is
// printed in white and the rest in the accent color.
func WithBrand(brand string) Option {
	return func(r *Renderer) {
		fields := strings.Fields(brand)
		if len(fields) == 0 {
			return
		}
		r.primary = fields[0]
		r.accent = strings.Join(fields[1:], " ")
	}
}

// WithLocation sets the time zone dates and file names are printed in.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithCompression toggles stream compression. Uncompressed output is only
// useful for inspecting the generated page content.
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now, primary: "GEO", accent: "APP", compress: true, loc: time.UTC}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Filename names the PDF of in as of the renderer's clock.
func (r *Renderer) Filename(in Input) string {
	return baseName(in, r.now().In(r.loc)) + ".pdf"
}

// SpreadsheetFilename names the XLSX export of in as of the renderer's clock.
func (r *Renderer) SpreadsheetFilename(in Input) string {
	return baseName(in, r.now().In(r.loc)) + ".xlsx"
}

// Render writes the inspection report as a PDF to w. Nothing is written when
// the input is incomplete or layout fails.
func (r *Renderer) Render(w io.Writer, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}
	in = r.local(in)

	d := newDocument(r.now(), r.compress)
	d.header(r.primary, r.accent)
	d.propertyPanel(in)
	d.inspectionPanel(in)

	sum := in.summary()
	d.summaryTable(sum)
	for _, room := range sum.Rooms {
		d.roomSection(room)
	}

	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// local returns a copy of in with its dates in the renderer's time zone.
func (r *Renderer) local(in Input) Input {
	inspection := *in.Inspection
	inspection.InspectionDate = inspection.InspectionDate.In(r.loc)
	in.Inspection = &inspection
	return in
}

type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
	y      float64
}

func newDocument(now time.Time, compress bool) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginX, topAfterBreak, marginX)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle("Relatório de Vistoria", true)
	pdf.SetCreator("vistoria", false)

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	d.width, d.height = pdf.GetPageSize()
	pdf.SetFooterFunc(d.footer)
	pdf.AddPage()
	return d
}

func (d *document) footer() {
	d.pdf.SetY(-15)
	d.font("", 8)
	d.setText(colorFooter)
	d.pdf.CellFormat(0, 10, d.tr(fmt.Sprintf("Página %d de {nb}", d.pdf.PageNo())), "", 0, "C", false, 0, "")
}

func (d *document) newPage() {
	d.pdf.AddPage()
	d.y = topAfterBreak
}

func (d *document) header(primary, accent string) {
	d.setFill(colorBand)
	d.pdf.Rect(0, 0, d.width, 40, "F")

	d.font("B", 24)
	d.setText(colorWhite)
	d.text(20, 25, primary)
	if accent != "" {
		x := math.Max(55, 20+d.textWidth(primary)+2)
		d.setText(colorAccent)
		d.text(x, 25, accent)
	}

	d.font("", 14)
	d.setText(colorWhite)
	title := "Relatório de Vistoria"
	d.text(d.width-20-d.textWidth(title), 25, title)
}

func (d *document) panel(y, h float64) {
	d.setDraw(colorPanelLine)
	d.setFill(colorPanelFill)
	d.pdf.RoundedRect(marginX, y, d.width-2*marginX, h, 3, "1234", "FD")
}

func (d *document) propertyPanel(in Input) {
	p := in.Property
	maxW := d.width - 2*marginX - 10

	d.panel(50, 60)
	d.setText(colorBlack)
	d.font("B", 12)
	d.text(20, 60, "Detalhes do Imóvel")

	d.font("", 10)
	d.text(20, 70, d.fit("Endereço: "+formatAddress(p), maxW))
	d.text(20, 80, d.fit("Tipo: "+formatType(p), maxW))
	d.text(20, 90, "Área: "+formatArea(p.Area))
	d.text(20, 100, d.fit("Matrícula: "+orNA(p.RegistrationNumber)+"    Valor: "+formatMoney(p.Value), maxW))
}

func (d *document) inspectionPanel(in Input) {
	d.panel(120, 40)
	d.setText(colorBlack)
	d.font("B", 12)
	d.text(20, 130, "Informações da Vistoria")

	d.font("", 10)
	d.text(20, 140, "Data: "+formatDate(in.Inspection.InspectionDate))
	d.text(20, 150, d.fit("Vistoriador: "+orNA(in.Inspector), d.width-2*marginX-10))
}

var summaryTable = tableStyle{
	columns: []column{
		{title: "Ambiente", width: 60, align: "L"},
		{title: "Total de Itens", width: 30, align: "C"},
		{title: "Bom Estado", width: 30, align: "C"},
		{title: "Estado Ruim", width: 30, align: "C"},
		{title: "Estado Péssimo", width: 30, align: "C"},
	},
	headFill: colorBand,
	headText: colorWhite,
	stripe:   true,
}

var roomTable = tableStyle{
	columns: []column{
		{title: "Item", width: 60, align: "L"},
		{title: "Condição", width: 30, align: "C"},
		{title: "Observações", width: 90, align: "L"},
	},
	headFill: colorRoomHead,
	headText: colorBlack,
}

func (d *document) summaryTable(s *summary.Inspection) {
	d.setText(colorBlack)
	d.font("B", 14)
	d.text(marginX, 170, "Resumo por Ambiente")
	d.y = 180

	rows := make([][]cell, 0, len(s.Rooms))
	for _, r := range s.Rooms {
		rows = append(rows, []cell{
			{text: r.Name},
			{text: itoa(r.TotalItems)},
			{text: itoa(r.Good)},
			{text: itoa(r.Poor)},
			{text: itoa(r.VeryPoor)},
		})
	}
	d.table(summaryTable, rows)
}

func (d *document) roomSection(r summary.Room) {
	if d.y > d.height-sectionTrigger {
		d.newPage()
	}
	d.y += 10
	d.setText(colorBlack)
	d.font("B", 14)
	d.text(marginX, d.y, r.Name)
	d.y += 4

	rows := make([][]cell, 0, len(r.Items))
	for _, it := range r.Items {
		st := styleFor(it.Condition)
		desc := it.Description
		if strings.TrimSpace(desc) == "" {
			desc = "-"
		}
		rows = append(rows, []cell{
			{text: it.Name},
			{text: it.Condition.Code(), fill: &st.Fill, color: &st.Text, bold: true},
			{text: desc},
		})
	}
	d.table(roomTable, rows)
}

type column struct {
	title string
	width float64
	align string
}

type tableStyle struct {
	columns  []column
	headFill rgb
	headText rgb
	stripe   bool
}

type cell struct {
	text  string
	fill  *rgb
	color *rgb
	bold  bool
}

// table draws a header row and then rows, wrapping long text inside its
// column. A row that would cross the bottom margin moves to a new page, which
// repeats the header.
func (d *document) table(t tableStyle, rows [][]cell) {
	limit := d.height - bottomMargin
	headH := lineHeight + 2*cellPadding
	if d.y+headH > limit {
		d.newPage()
	}
	d.tableHeader(t)

	for i, row := range rows {
		lines := make([][]string, len(row))
		n := 1
		for j, c := range row {
			d.font(fontStyle(c.bold), bodyFontSize)
			lines[j] = d.wrap(c.text, t.columns[j].width-2*cellPadding)
			n = max(n, len(lines[j]))
		}
		h := float64(n)*lineHeight + 2*cellPadding

		if d.y+h > limit {
			d.newPage()
			d.tableHeader(t)
		}

		x := marginX
		for j, c := range row {
			col := t.columns[j]
			var fill *rgb
			switch {
			case c.fill != nil:
				fill = c.fill
			case t.stripe && i%2 == 1:
				fill = &colorStripe
			}
			d.box(x, d.y, col.width, h, fill)

			text := colorBlack
			if c.color != nil {
				text = *c.color
			}
			d.setText(text)
			d.font(fontStyle(c.bold), bodyFontSize)
			d.lines(x, d.y, col.width, h, lines[j], col.align)
			x += col.width
		}
		d.y += h
	}
}

func (d *document) tableHeader(t tableStyle) {
	h := lineHeight + 2*cellPadding
	x := marginX
	d.font("B", bodyFontSize)
	for _, col := range t.columns {
		fill := t.headFill
		d.box(x, d.y, col.width, h, &fill)
		d.setText(t.headText)
		d.lines(x, d.y, col.width, h, []string{col.title}, col.align)
		x += col.width
	}
	d.y += h
}

func (d *document) box(x, y, w, h float64, fill *rgb) {
	d.setDraw(colorGridLine)
	if fill == nil {
		d.pdf.Rect(x, y, w, h, "D")
		return
	}
	d.setFill(*fill)
	d.pdf.Rect(x, y, w, h, "FD")
}

// lines prints text lines centred vertically in the cell at (x, y).
func (d *document) lines(x, y, w, h float64, lines []string, align string) {
	top := y + (h-float64(len(lines))*lineHeight)/2
	for k, l := range lines {
		d.pdf.SetXY(x+cellPadding, top+float64(k)*lineHeight)
		d.pdf.CellFormat(w-2*cellPadding, lineHeight, d.tr(l), "", 0, align, false, 0, "")
	}
}

// wrap breaks s into lines no wider than width in the current font. Words
// wider than a line are split between characters.
func (d *document) wrap(s string, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var out []string
	line := ""
	for _, w := range words {
		for d.textWidth(w) > width {
			head, tail := d.splitWord(w, width)
			if line != "" {
				out = append(out, line)
				line = ""
			}
			out = append(out, head)
			w = tail
		}
		if w == "" {
			continue
		}
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if line != "" && d.textWidth(candidate) > width {
			out = append(out, line)
			line = w
			continue
		}
		line = candidate
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}

func (d *document) splitWord(w string, width float64) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && d.textWidth(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// fit shortens s with an ellipsis until it is no wider than width.
func (d *document) fit(s string, width float64) string {
	if d.textWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && d.textWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func (d *document) textWidth(s string) float64 {
	return d.pdf.GetStringWidth(d.tr(s))
}

func (d *document) text(x, y float64, s string) {
	d.pdf.Text(x, y, d.tr(s))
}

func (d *document) font(style string, size float64) {
	d.pdf.SetFont("Helvetica", style, size)
}

func (d *document) setFill(c rgb) { d.pdf.SetFillColor(c.R, c.G, c.B) }
func (d *document) setText(c rgb) { d.pdf.SetTextColor(c.R, c.G, c.B) }
func (d *document) setDraw(c rgb) { d.pdf.SetDrawColor(c.R, c.G, c.B) }

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}
