package commands

import (
	"fmt"
	"io"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"

	contract "github.com/tablecraft/contract"
)

// renderDatasetReport writes the findings of one validation run in the
// selected format. maxRows caps the number of flagged rows shown; 0 shows
// all of them.
func renderDatasetReport(w io.Writer, rep *contract.DatasetReport, format string, maxRows int) error {
	switch format {
	case "json":
		return renderReportJSON(w, rep)
	case "md", "markdown":
		return renderReportTable(w, rep, maxRows, true)
	default:
		return renderReportTable(w, rep, maxRows, false)
	}
}

func renderReportJSON(w io.Writer, rep *contract.DatasetReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func renderReportTable(w io.Writer, rep *contract.DatasetReport, maxRows int, markdown bool) error {
	if rep.Valid() {
		_, _ = fmt.Fprintf(w, "OK: %d rows, no violations\n", rep.Summary.Rows)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Row", "Field", "Code", "Message"})

	rows := make([]int, 0, len(rep.Rows))
	for i := range rep.Rows {
		rows = append(rows, i)
	}
	sort.Ints(rows)
	shown := 0
	for _, i := range rows {
		if maxRows > 0 && shown >= maxRows {
			t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("... %d more flagged rows", len(rows)-shown)})
			break
		}
		rowRep := rep.Rows[i]
		for _, key := range rowRep.Keys() {
			for _, v := range rowRep[key] {
				t.AppendRow(table.Row{i, key, v.Code, v.Message})
			}
		}
		shown++
	}
	for _, v := range rep.Dataset {
		t.AppendRow(table.Row{"-", "-", v.Code, v.Message})
	}

	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}

	_, _ = fmt.Fprintf(w, "%d rows, %d invalid, %d violations\n",
		rep.Summary.Rows, rep.Summary.InvalidRows, rep.Summary.Violations)
	return nil
}
