package export

import (
	"fmt"
	"html"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

const (
	ReportFileName  = "analytics_report.json"
	reportMediaType = "application/octet-stream"
	figureMediaType = "image/png"
)

// Link is a download link whose target is embedded as a data URI.
type Link struct {
	Label    string `json:"label"`
	FileName string `json:"file_name"`
	Href     string `json:"href"`
}

// HTML renders the link as an anchor with a download attribute.
func (l Link) HTML() string {
	return fmt.Sprintf(`<a href="%s" download="%s">%s</a>`,
		html.EscapeString(l.Href), html.EscapeString(l.FileName), html.EscapeString(l.Label))
}

// ReportLink returns the download link for the JSON report.
func ReportLink(reportJSON []byte) Link {
	return Link{
		Label:    "Download Report",
		FileName: ReportFileName,
		Href:     DataURI(reportMediaType, reportJSON),
	}
}

// FigureLinks returns one download link per chart, numbered from 1 in order.
func FigureLinks(charts []entity.Chart) []Link {
	links := make([]Link, len(charts))
	for i, c := range charts {
		n := i + 1
		links[i] = Link{
			Label:    fmt.Sprintf("Download Figure %d", n),
			FileName: fmt.Sprintf("figure_%d.png", n),
			Href:     DataURI(figureMediaType, c.PNG),
		}
	}
	return links
}
