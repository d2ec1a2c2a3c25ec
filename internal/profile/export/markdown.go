package export

import (
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

// Markdown writes a Markdown rendition of the report and describe table to w.
func Markdown(w io.Writer, r entity.Report, d entity.DescribeTable) error {
	md := markdown.NewMarkdown(w)

	md.H1(r.Analysis.Title)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"File", "`" + r.Analysis.FileName + "`"},
			{"Format", string(r.Analysis.Format)},
			{"Generated", r.Analysis.DateEnd.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	writeOverview(md, r.Table)
	writeAlerts(md, r.Alerts)
	writeVariables(md, r.Variables)
	writeDescribe(md, d)
	writeCorrelations(md, r.Correlations.Pearson)

	md.HorizontalRule()
	return md.Build()
}

func writeOverview(md *markdown.Markdown, t entity.TableStats) {
	md.H2("Overview")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Rows", strconv.Itoa(t.Rows)},
			{"Variables", strconv.Itoa(t.Variables)},
			{"Missing cells", strconv.Itoa(t.MissingCells) + " (" + percent(t.MissingRatio) + ")"},
			{"Duplicate rows", strconv.Itoa(t.Duplicates) + " (" + percent(t.DuplicateRatio) + ")"},
		},
	})
	md.PlainText("")

	if len(t.Types) == 0 {
		return
	}
	kinds := make([]string, 0, len(t.Types))
	for k := range t.Types {
		kinds = append(kinds, string(k))
	}
	slices.Sort(kinds)

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Variable Types"),
		piechart.WithShowData(true),
	)
	for _, k := range kinds {
		chart.LabelAndIntValue(k, uint64(t.Types[entity.ColumnKind(k)]))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeAlerts(md *markdown.Markdown, alerts []entity.Alert) {
	md.H2("Alerts")
	md.PlainText("")
	if len(alerts) == 0 {
		md.Tip("No alerts raised for this dataset.")
		md.PlainText("")
		return
	}

	items := make([]string, len(alerts))
	for i, a := range alerts {
		items[i] = "**" + string(a.Type) + "** " + a.Message
	}
	md.BulletList(items...)
	md.PlainText("")
}

func writeVariables(md *markdown.Markdown, vars []entity.Variable) {
	md.H2("Variables")
	md.PlainText("")

	rows := make([][]string, len(vars))
	for i, v := range vars {
		mean, std := "-", "-"
		if v.Numeric != nil {
			mean, std = number(v.Numeric.Mean), number(v.Numeric.Std)
		}
		rows[i] = []string{
			v.Name,
			string(v.Kind),
			strconv.Itoa(v.Distinct),
			strconv.Itoa(v.Missing) + " (" + percent(v.MissingRatio) + ")",
			mean,
			std,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Type", "Distinct", "Missing", "Mean", "Std"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeDescribe(md *markdown.Markdown, d entity.DescribeTable) {
	if len(d.Columns) == 0 {
		return
	}

	md.H2("Summary Statistics for Numeric Columns")
	md.PlainText("")
	rows := make([][]string, len(d.Index))
	for i, stat := range d.Index {
		rows[i] = append([]string{stat}, numbers(d.Values[i])...)
	}
	md.Table(markdown.TableSet{
		Header: append([]string{""}, d.Columns...),
		Rows:   rows,
	})
	md.PlainText("")
}

func writeCorrelations(md *markdown.Markdown, m *entity.CorrelationMatrix) {
	if m == nil {
		return
	}

	md.H2("Correlations")
	md.PlainText("")
	rows := make([][]string, len(m.Columns))
	for i, name := range m.Columns {
		rows[i] = append([]string{name}, numbers(m.Matrix[i])...)
	}
	md.Table(markdown.TableSet{
		Header: append([]string{""}, m.Columns...),
		Rows:   rows,
	})
	md.PlainText("")
}

func numbers(fs []entity.Float) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = number(f)
	}
	return out
}

func number(f entity.Float) string {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func percent(f entity.Float) string {
	return strconv.FormatFloat(float64(f)*100, 'f', 1, 64) + "%"
}
