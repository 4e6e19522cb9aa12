// Package display maps reconciled matching entries into presentation rows.
package display

import (
	"fmt"
	"strings"

	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matching"
)

// Row is one display-ready line for a matched post.
type Row struct {
	Rank     int
	Badge    string
	Title    string
	Location string
	Period   string
	Status   string
	Capacity string
	// Percent is the clamped overall score, e.g. "87%".
	Percent string
	// VectorPercent is empty when the candidate carried no vector score.
	VectorPercent string
	// Keywords joins the overlapping styles and tendencies; empty when the
	// candidate shared none, in which case the section is not rendered.
	Keywords string
}

var rankBadges = []string{"🥇", "🥈", "🥉"}

// Rows converts entries into rows, preserving order. Rank is 1-based; the top
// three carry a badge the way the carousel highlights them.
func Rows(entries []matching.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, buildRow(i+1, entry))
	}
	return rows
}

func buildRow(rank int, entry matching.Entry) Row {
	row := Row{
		Rank:     rank,
		Title:    entry.Post.Title,
		Location: entry.Post.Location,
		Period:   entry.Post.Period(),
		Status:   entry.Post.Status,
		Percent:  percentText(entry.Info.Score),
	}

	if rank <= len(rankBadges) {
		row.Badge = rankBadges[rank-1]
	}

	if entry.Post.Capacity > 0 {
		row.Capacity = fmt.Sprintf("%d/%d", len(entry.Post.Participation), entry.Post.Capacity)
	}

	if entry.Info.VectorScore != nil {
		row.VectorPercent = percentText(*entry.Info.VectorScore)
	}

	var keywords []string
	keywords = append(keywords, entry.Info.Styles...)
	keywords = append(keywords, entry.Info.Tendencies...)
	row.Keywords = strings.Join(keywords, ", ")

	return row
}

// Label renders a row as a single prompt line.
func (r Row) Label() string {
	parts := []string{fmt.Sprintf("%d.", r.Rank)}
	if r.Badge != "" {
		parts = append(parts, r.Badge)
	}
	parts = append(parts, r.Title, "/", r.Percent)
	if r.Location != "" {
		parts = append(parts, "/", r.Location)
	}
	return strings.Join(parts, " ")
}

// ReportByWriter groups entries by post author for the report action.
func ReportByWriter(entries []matching.Entry) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, entry := range entries {
		nickname := entry.Post.WriterNickname()
		if nickname == "" {
			nickname = "(unknown)"
		}
		key := nickname

		item := map[string]string{
			"title":    entry.Post.Title,
			"location": entry.Post.Location,
			"period":   entry.Post.Period(),
			"status":   entry.Post.Status,
			"score":    percentText(entry.Info.Score),
		}
		if entry.Info.VectorScore != nil {
			item["vector_score"] = percentText(*entry.Info.VectorScore)
		}
		if keywords, ok := matching.JoinOverlap(overlapValues(entry)); ok {
			item["overlap"] = keywords
		}

		report[key] = append(report[key], item)
	}
	return report
}

func overlapValues(entry matching.Entry) []string {
	var all []string
	all = append(all, entry.Info.Styles...)
	all = append(all, entry.Info.Tendencies...)
	return all
}

// percentText applies the mandatory display clamp before formatting.
func percentText(score int) string {
	return fmt.Sprintf("%d%%", matching.ClampPercent(score))
}
