package report

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vbonduro/vistoria/internal/domain"
)

const (
	sheetSummary = "Resumo"
	sheetItems   = "Itens"
)

// WriteSpreadsheet writes the inspection as an XLSX workbook: a per-room
// summary sheet with a totals row and a sheet listing every item.
func (r *Renderer) WriteSpreadsheet(w io.Writer, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}
	in = r.local(in)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close workbook", "error", err)
		}
	}()

	now := r.now()
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Relatório de Vistoria",
		Creator: "vistoria",
		Created: now.UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("failed to set workbook properties: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetItems); err != nil {
		return fmt.Errorf("failed to create items sheet: %w", err)
	}

	headStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: colorWhite.hex()},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorBand.hex()}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, in, headStyle); err != nil {
		return err
	}
	if err := writeItemsSheet(f, in, headStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, in Input, headStyle int) error {
	sum := in.summary()

	rows := [][]any{
		{"Imóvel", in.Property.Title},
		{"Endereço", formatAddress(in.Property)},
		{"Data", formatDate(in.Inspection.InspectionDate)},
		{"Vistoriador", orNA(in.Inspector)},
		{},
	}
	header := []any{"Ambiente", "Total de Itens", "Bom Estado", "Estado Ruim", "Estado Péssimo"}
	headerRow := len(rows) + 1
	rows = append(rows, header)
	for _, room := range sum.Rooms {
		rows = append(rows, []any{room.Name, room.TotalItems, room.Good, room.Poor, room.VeryPoor})
	}
	rows = append(rows, []any{"Total", sum.TotalItems, sum.Totals.Good, sum.Totals.Poor, sum.Totals.VeryPoor})

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address summary row: %w", err)
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := f.SetCellStyle(sheetSummary, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("E%d", headerRow), headStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	if err := f.SetColWidth(sheetSummary, "A", "A", 30); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}
	if err := f.SetColWidth(sheetSummary, "B", "E", 16); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}
	return nil
}

func writeItemsSheet(f *excelize.File, in Input, headStyle int) error {
	header := []any{"Ambiente", "Item", "Categoria", "Condição", "Observações"}
	if err := f.SetSheetRow(sheetItems, "A1", &header); err != nil {
		return fmt.Errorf("failed to write items header: %w", err)
	}
	if err := f.SetCellStyle(sheetItems, "A1", "E1", headStyle); err != nil {
		return fmt.Errorf("failed to style items header: %w", err)
	}

	styles := make(map[domain.Condition]int)
	styleID := func(c domain.Condition) (int, error) {
		if !c.Valid() {
			c = domain.ConditionUnset
		}
		if id, ok := styles[c]; ok {
			return id, nil
		}
		st := styleFor(c)
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: st.Text.hex()},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{st.Fill.hex()}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to create condition style: %w", err)
		}
		styles[c] = id
		return id, nil
	}

	row := 2
	for _, room := range in.summary().Rooms {
		for _, it := range room.Items {
			desc := it.Description
			if strings.TrimSpace(desc) == "" {
				desc = "-"
			}
			values := []any{room.Name, it.Name, it.Category, it.Condition.Label(), desc}
			if err := f.SetSheetRow(sheetItems, fmt.Sprintf("A%d", row), &values); err != nil {
				return fmt.Errorf("failed to write item row: %w", err)
			}
			id, err := styleID(it.Condition)
			if err != nil {
				return err
			}
			cell := fmt.Sprintf("D%d", row)
			if err := f.SetCellStyle(sheetItems, cell, cell, id); err != nil {
				return fmt.Errorf("failed to style condition cell: %w", err)
			}
			row++
		}
	}

	if err := f.SetColWidth(sheetItems, "A", "C", 24); err != nil {
		return fmt.Errorf("failed to size item columns: %w", err)
	}
	if err := f.SetColWidth(sheetItems, "E", "E", 60); err != nil {
		return fmt.Errorf("failed to size item columns: %w", err)
	}
	return nil
}
