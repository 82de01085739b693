// Result rendering shared by the shell and exec commands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// renderResult writes a result set as an aligned text table, or as JSON
// when asJSON is set. Write statements render as an affected-row summary.
func renderResult(w io.Writer, rs *types.ResultSet, asJSON bool) error {
	if asJSON {
		return renderJSON(w, rs)
	}
	if rs.Columns == nil {
		_, err := fmt.Fprintf(w, "OK, %d rows affected\n", rs.Affected)
		return err
	}

	widths := make([]int, len(rs.Columns))
	for i, c := range rs.Columns {
		widths[i] = len(c)
	}
	cells := make([][]string, len(rs.Rows))
	for r, row := range rs.Rows {
		cells[r] = make([]string, len(row))
		for i, v := range row {
			s := v.String()
			cells[r][i] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	var b strings.Builder
	for i, c := range rs.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], c)
	}
	b.WriteByte('\n')
	for i, width := range widths {
		if i > 0 {
			b.WriteString("-+-")
		}
		b.WriteString(strings.Repeat("-", width))
	}
	b.WriteByte('\n')
	for _, row := range cells {
		for i, s := range row {
			if i > 0 {
				b.WriteString(" | ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], s)
		}
		b.WriteByte('\n')
	}
	if len(rs.Rows) == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", len(rs.Rows))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderJSON(w io.Writer, rs *types.ResultSet) error {
	doc := struct {
		Columns  []string `json:"columns,omitempty"`
		Rows     [][]any  `json:"rows,omitempty"`
		Affected int      `json:"affected"`
	}{Columns: rs.Columns, Affected: rs.Affected}
	for _, row := range rs.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = naturalValue(v)
		}
		doc.Rows = append(doc.Rows, cells)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func naturalValue(v types.Value) any {
	switch v.Kind {
	case types.KindInteger:
		return v.Int
	case types.KindFloat:
		return v.Float
	case types.KindText:
		return v.Text
	case types.KindBoolean:
		return v.Bool
	case types.KindDateTime:
		return v.Time.Format(types.DateTimeLayout)
	default:
		return nil
	}
}
