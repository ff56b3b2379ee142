// Package tabular reads and writes the comma-separated text used for catalog
// spreadsheets.
//
// The dialect is a lenient subset of RFC 4180:
//
//   - records are separated by "\n" (a trailing "\r" is ignored)
//   - a double quote toggles quoted mode; inside quotes, "" is a literal quote
//   - commas inside quotes do not split cells
//   - cells are trimmed of surrounding whitespace
//   - rows whose cells are all empty are dropped
//
// Decoding never fails. Malformed quoting degrades to best-effort cell
// boundaries. Quoted cells cannot span lines, so a cell containing a newline
// is written quoted by Encode but will not survive a Decode.
package tabular

import "strings"

// Record is a decoded row together with its 1-based line in the source text.
type Record struct {
	Line  int
	Cells []string
}

// Decode parses text into rows of cells.
func Decode(text string) [][]string {
	records := DecodeRecords(text)
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Cells
	}
	return rows
}

// DecodeRecords parses text into records that remember their source line.
func DecodeRecords(text string) []Record {
	lines := strings.Split(text, "\n")
	records := make([]Record, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		cells := decodeLine(line)
		if isBlank(cells) {
			continue
		}
		records = append(records, Record{Line: i + 1, Cells: cells})
	}

	return records
}

func decodeLine(line string) []string {
	var cells []string
	var cell strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			cell.WriteRune('"')
			i++
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(ch)
		}
	}
	cells = append(cells, strings.TrimSpace(cell.String()))

	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// Encode writes the header line followed by one line per row.
func Encode(headers []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, encodeLine(headers))
	for _, row := range rows {
		lines = append(lines, encodeLine(row))
	}
	return strings.Join(lines, "\n")
}

func encodeLine(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = EscapeCell(c)
	}
	return strings.Join(escaped, ",")
}

// EscapeCell quotes a cell only when it contains a comma, a quote or a line break.
func EscapeCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
