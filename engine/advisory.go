package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/observability"
)

// AnalyzeCompliance returns regulatory insights for a project type at a
// location, or an empty list on any failure.
func (e *Engine) AnalyzeCompliance(ctx context.Context, projectType, location string) []model.ComplianceInsight {
	req := protocol.NewStructured(CompliancePrompt(projectType, location), complianceSchema())
	return analyze[model.ComplianceInsight](ctx, e, "engine.AnalyzeCompliance", req)
}

// AnalyzeRisk returns supply-chain risks for a region, or an empty list on
// any failure.
func (e *Engine) AnalyzeRisk(ctx context.Context, region string) []model.ProcurementRisk {
	req := protocol.NewStructured(RiskPrompt(region), riskSchema())
	return analyze[model.ProcurementRisk](ctx, e, "engine.AnalyzeRisk", req)
}

// analyze runs a schema-constrained query and decodes the reply directly;
// the service's schema guarantee stands in for sanitization.
func analyze[T any](ctx context.Context, e *Engine, source string, req *protocol.GenerateRequest) []T {
	if e.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.requestTimeout)
		defer cancel()
	}

	items, err := func() ([]T, error) {
		resp, err := e.generate(ctx, source, req)
		if err != nil {
			return nil, err
		}

		var items []T
		if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &items); err != nil {
			return nil, fmt.Errorf("failed to decode %s reply: %w", source, err)
		}
		return items, nil
	}()
	if err != nil {
		e.fail(ctx, source, err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}

	observability.Emit(ctx, e.observer, EventAnalysisComplete, observability.LevelInfo, source, map[string]any{
		"items": len(items),
	})
	return items
}

// Advisory bundles the compliance and procurement views of one project.
type Advisory struct {
	Compliance []model.ComplianceInsight `json:"compliance"`
	Risks      []model.ProcurementRisk   `json:"risks"`
}

// Advise runs AnalyzeCompliance and AnalyzeRisk concurrently. Each half
// reports its own failure and yields an empty list, so a failed half never
// cancels the other; the group only joins them.
func (e *Engine) Advise(ctx context.Context, projectType, location, region string) Advisory {
	var (
		out Advisory
		g   errgroup.Group
	)
	g.Go(func() error {
		out.Compliance = e.AnalyzeCompliance(ctx, projectType, location)
		return nil
	})
	g.Go(func() error {
		out.Risks = e.AnalyzeRisk(ctx, region)
		return nil
	})
	g.Wait()
	return out
}
