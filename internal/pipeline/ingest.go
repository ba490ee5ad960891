package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"docmatch/internal"
	"docmatch/internal/util"
)

var reSpaces = regexp.MustCompile(`\s+`)

// fieldColumns locates the analysis export columns in a header row.
type fieldColumns struct {
	label, value, confidence, x, y int
}

// ExtractFieldsFromInput reads the analysis service output for one document.
// inputType is json, xlsx or html; the input is a file path.
func ExtractFieldsFromInput(inputType string, path string) ([]internal.ExtractedField, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(inputType)) {
	case "json":
		return parseFieldsJSON(blob)
	case "xlsx":
		return parseFieldsXLSX(blob)
	case "html":
		return parseFieldsHTML(string(blob)), nil
	default:
		return nil, fmt.Errorf("unsupported input type: %s", inputType)
	}
}

func parseFieldsJSON(blob []byte) ([]internal.ExtractedField, error) {
	var fields []internal.ExtractedField
	if err := json.Unmarshal(blob, &fields); err != nil {
		return nil, fmt.Errorf("decode extracted fields: %w", err)
	}
	return fields, nil
}

func parseFieldsHTML(html string) []internal.ExtractedField {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []internal.ExtractedField{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		headers := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.ToLower(normalizeSpaces(cell.Text())))
		})
		cols := inferFieldColumns(headers)
		if cols.label < 0 {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, normalizeSpaces(cell.Text()))
			})
			if field, ok := rowToField(cells, cols); ok {
				out = append(out, field)
			}
		})
	})
	return out
}

func parseFieldsXLSX(content []byte) ([]internal.ExtractedField, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []internal.ExtractedField{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		cols := inferFieldColumns(lowerCells(rows[0]))
		if cols.label < 0 {
			continue
		}
		for _, row := range rows[1:] {
			if field, ok := rowToField(normalizeCells(row), cols); ok {
				out = append(out, field)
			}
		}
	}
	return out, nil
}

func rowToField(cells []string, cols fieldColumns) (internal.ExtractedField, bool) {
	label := pickCell(cells, cols.label)
	if label == "" {
		return internal.ExtractedField{}, false
	}
	field := internal.ExtractedField{
		Label: label,
		Value: pickCell(cells, cols.value),
	}
	if conf, ok := util.ParseNumber(pickCell(cells, cols.confidence)); ok {
		field.Confidence = util.Clamp(conf, 0, 1)
	}
	x, okX := util.ParseNumber(pickCell(cells, cols.x))
	y, okY := util.ParseNumber(pickCell(cells, cols.y))
	if okX && okY {
		field.Position = &internal.Position{X: x, Y: y}
	}
	return field, true
}

func inferFieldColumns(headers []string) fieldColumns {
	return fieldColumns{
		label:      findHeaderIndex(headers, []string{"label", "field", "key"}),
		value:      findHeaderIndex(headers, []string{"value", "text"}),
		confidence: findHeaderIndex(headers, []string{"confidence", "conf", "score"}),
		x:          findExactHeader(headers, []string{"x", "pos_x", "position_x"}),
		y:          findExactHeader(headers, []string{"y", "pos_y", "position_y"}),
	}
}

func findHeaderIndex(headers []string, probes []string) int {
	for i, h := range headers {
		for _, probe := range probes {
			if strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func findExactHeader(headers []string, probes []string) int {
	for i, h := range headers {
		for _, probe := range probes {
			if h == probe {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func normalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, normalizeSpaces(c))
	}
	return out
}

func lowerCells(row []string) []string {
	out := normalizeCells(row)
	for i := range out {
		out[i] = strings.ToLower(out[i])
	}
	return out
}
