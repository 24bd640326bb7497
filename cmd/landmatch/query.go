package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/engine"
	"github.com/tailored-agentic-units/landmatch/mapview"
	"github.com/tailored-agentic-units/landmatch/mapview/raster"
	"github.com/tailored-agentic-units/landmatch/session"
)

type queryOptions struct {
	compare bool
	advise  bool
	mapOut  string
}

func runQuery(ctx context.Context, eng *engine.Engine, cfg *engine.Config, m model.Mandate, opts queryOptions) error {
	s, err := session.New(&session.Config{Observer: cfg.Observer})
	if err != nil {
		return err
	}

	token := s.Begin(m)
	s.Complete(ctx, token, eng.FindMatches(ctx, m))

	printMatches(s.Matches())
	printSources(s.Sources())

	if opts.compare {
		s.ToggleSelectAll()
		printComparison(s)
	}

	if opts.mapOut != "" {
		center := geo.Riyadh
		if m.Location != nil {
			center = *m.Location
		}
		if err := writeMap(opts.mapOut, center, s.MapMarkers()); err != nil {
			return err
		}
		fmt.Printf("\nMap written to %s\n", opts.mapOut)
	}

	if opts.advise {
		location := eng.Region()
		if matches := s.Matches(); len(matches) > 0 {
			location = matches[0].Location
		}
		printAdvisory(eng.Advise(ctx, string(m.AssetType), location, eng.Region()))
	}
	return nil
}

func writeMap(path string, center geo.Point, markers []model.MapMarker) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map file: %w", err)
	}
	defer f.Close()

	_, err = raster.Render(f, mapview.Props{
		Center:    center,
		Markers:   markers,
		FitBounds: true,
	}, mapview.Container{ID: "cli"}, mapview.DefaultOptions())
	if err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return f.Close()
}

func printMatches(matches []model.MatchCandidate) {
	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return
	}
	fmt.Printf("Matches (%d):\n", len(matches))
	for i, m := range matches {
		fmt.Printf("  [%d] %s (%s) score %.0f, IRR %.1f%%\n", i+1, m.Name, m.Type, m.MatchScore, m.ProjectedIRR)
		fmt.Printf("      %s  %s  %s\n", m.Location, m.Size, m.Price)
		fmt.Printf("      zoning: %s  soil: %s\n", m.Zoning, m.SoilReport)
		if len(m.Infrastructure) > 0 {
			fmt.Printf("      infrastructure: %s\n", strings.Join(m.Infrastructure, ", "))
		}
		if m.Reasoning != "" {
			fmt.Printf("      %s\n", m.Reasoning)
		}
	}
}

func printSources(sources []model.GroundingSource) {
	if len(sources) == 0 {
		return
	}
	fmt.Println("\nSources:")
	for _, src := range sources {
		fmt.Printf("  %s <%s>\n", src.Title, src.URL)
	}
}

func printComparison(s *session.Session) {
	cmp := s.Comparison()
	if cmp.Empty() {
		return
	}
	fmt.Printf("\nComparison (max IRR %.1f%%, centre %.4f,%.4f):\n", cmp.MaxIRR, cmp.Center.Lat, cmp.Center.Lng)
	for _, col := range cmp.Columns {
		mark := ""
		if col.BestIRR {
			mark = " best"
		}
		bar := strings.Repeat("#", int(col.IRRPercent/5))
		fmt.Printf("  %-32s %5.1f%% %s%s\n", col.Candidate.Name, col.Candidate.ProjectedIRR, bar, mark)
	}
}

func printAdvisory(a engine.Advisory) {
	fmt.Println("\nCompliance:")
	if len(a.Compliance) == 0 {
		fmt.Println("  none")
	}
	for _, c := range a.Compliance {
		fmt.Printf("  [%s] %s: %s (saving %s)\n", c.Impact, c.Title, c.Description, c.SavingEstimate)
	}

	fmt.Println("\nProcurement risks:")
	if len(a.Risks) == 0 {
		fmt.Println("  none")
	}
	for _, r := range a.Risks {
		fmt.Printf("  [%s] %s: %s\n    mitigation: %s\n", r.RiskLevel, r.Category, r.Description, r.Mitigation)
	}
}
