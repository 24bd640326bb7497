package selection

import (
	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
)

// irrHeadroom scales the best IRR so the longest bar stops short of full
// width.
const irrHeadroom = 1.1

// Column is one candidate in a side-by-side comparison.
type Column struct {
	Candidate model.MatchCandidate `json:"candidate"`

	// IRRPercent is the candidate's IRR bar length in [0, 100).
	IRRPercent float64 `json:"irrPercent"`

	// BestIRR marks the candidate(s) with the highest projected IRR.
	BestIRR bool `json:"bestIRR"`
}

// Comparison summarizes the selected candidates for the comparison view.
type Comparison struct {
	Columns []Column          `json:"columns"`
	MaxIRR  float64           `json:"maxIRR"`
	Center  geo.Point         `json:"center"`
	Markers []model.MapMarker `json:"markers"`
}

// Empty reports whether there is nothing to compare.
func (c Comparison) Empty() bool {
	return len(c.Columns) == 0
}

// Compare builds the comparison for the given candidates, in the order
// given. Markers are never highlighted in comparison mode.
func Compare(selected []model.MatchCandidate) Comparison {
	cmp := Comparison{
		Columns: make([]Column, 0, len(selected)),
		Markers: make([]model.MapMarker, 0, len(selected)),
	}
	if len(selected) == 0 {
		return cmp
	}

	points := make([]geo.Point, len(selected))
	cmp.MaxIRR = selected[0].ProjectedIRR
	for i, m := range selected {
		points[i] = m.Coordinates
		if m.ProjectedIRR > cmp.MaxIRR {
			cmp.MaxIRR = m.ProjectedIRR
		}
	}
	cmp.Center = geo.Centroid(points...)

	for _, m := range selected {
		var pct float64
		if cmp.MaxIRR > 0 {
			pct = m.ProjectedIRR / (cmp.MaxIRR * irrHeadroom) * 100
		}
		cmp.Columns = append(cmp.Columns, Column{
			Candidate:  m,
			IRRPercent: pct,
			BestIRR:    m.ProjectedIRR == cmp.MaxIRR,
		})
		cmp.Markers = append(cmp.Markers, marker(m, false))
	}
	return cmp
}

// Markers builds the overview map markers for the visible candidates,
// highlighting the selected ones.
func Markers(visible []model.MatchCandidate, selected *Set[string]) []model.MapMarker {
	markers := make([]model.MapMarker, 0, len(visible))
	for _, m := range visible {
		markers = append(markers, marker(m, selected != nil && selected.Contains(m.ID)))
	}
	return markers
}

func marker(m model.MatchCandidate, current bool) model.MapMarker {
	return model.MapMarker{
		ID:        m.ID,
		Lat:       m.Coordinates.Lat,
		Lng:       m.Coordinates.Lng,
		Label:     m.Name,
		IsCurrent: current,
	}
}
