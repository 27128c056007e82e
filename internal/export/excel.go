package export

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"basegraph.app/storyforge/internal/model"
)

const (
	sheetName     = "Histórias"
	maxColumnWide = 50
)

var excelHeaders = []string{
	"ID", "Título", "Complexidade",
	"Regras de Negócio", "APIs/Serviços", "Objetivos",
	"Critérios de Aceitação", "Criado em", "Atualizado em",
}

// Excel writes one spreadsheet row per document under a styled header row.
type Excel struct{}

func (Excel) Encode(docs []model.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(docs)+1)
	header := make([]any, len(excelHeaders))
	for i, h := range excelHeaders {
		header[i] = h
	}
	rows = append(rows, header)
	for _, doc := range docs {
		rows = append(rows, excelRow(doc))
	}

	widths := make([]int, len(excelHeaders))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
		for col, v := range row {
			widths[col] = max(widths[col], cellLength(v))
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(excelHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return nil, err
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, float64(min(w+2, maxColumnWide))); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Excel) Filename(base, timestamp string) string { return filename(base, timestamp, FormatExcel) }

func (Excel) MIMEType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func excelRow(doc model.Document) []any {
	objectives := make([]string, 0, 7)
	for _, e := range doc.Objectives.Entries() {
		objectives = append(objectives, e.Label+": "+e.Value)
	}
	return []any{
		strconv.FormatInt(doc.ID, 10),
		doc.Title,
		doc.Complexity,
		strings.Join(doc.BusinessRules, "\n"),
		strings.Join(doc.APIs, "\n"),
		strings.Join(objectives, "\n"),
		strings.Join(doc.AcceptanceCriteria, "\n"),
		formatTime(doc.CreatedAt),
		formatTime(doc.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func cellLength(v any) int {
	switch x := v.(type) {
	case string:
		return utf8.RuneCountInString(x)
	case int:
		return len(strconv.Itoa(x))
	default:
		return 0
	}
}
