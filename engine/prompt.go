package engine

import (
	"fmt"
	"strconv"

	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/core/protocol"
)

const matchSchema = `{
  "name": string,
  "type": string,
  "location": string (full address as a single string),
  "coordinates": {"lat": number, "lng": number},
  "size": string,
  "price": string,
  "projectedIRR": number,
  "matchScore": number,
  "reasoning": string,
  "zoning": string,
  "soilReport": string,
  "infrastructure": string[]
}`

// MatchPrompt renders the grounded match query for a mandate.
func MatchPrompt(m model.Mandate, region string, candidates int) string {
	return fmt.Sprintf(`Act as an elite real estate investment AI.
The user has %s AED/SAR capital and targets an IRR of %s%%.
They are looking for a %q development opportunity in the Middle East.
Use Google Maps to find %d real plot opportunities in %s.
Return strictly a JSON array with the following structure for each match:
%s
Return ONLY the JSON. No other text.`,
		formatNumber(m.Capital),
		formatNumber(m.TargetReturn),
		string(m.AssetType),
		candidates,
		region,
		matchSchema,
	)
}

// CompliancePrompt renders the regulatory analysis query.
func CompliancePrompt(projectType, location string) string {
	return fmt.Sprintf(
		"Analyze regulatory landscape for %q in %q. Focus on Estidama and White Land Tax. Return 3 JSON insights.",
		projectType, location,
	)
}

// RiskPrompt renders the procurement risk query.
func RiskPrompt(region string) string {
	return fmt.Sprintf(
		"Analyze supply chain risks for construction in %s (e.g. Red Sea shipping, SAR/AED currency). "+
			"Return 3 risk items in JSON format with category, riskLevel (Critical/Stable/Warning), description, and mitigation.",
		region,
	)
}

func complianceSchema() *protocol.Schema {
	s := protocol.ArrayOf("title", "impact", "description", "savingEstimate")
	s.Items.Properties["impact"].Enum = []string{
		string(model.ImpactHigh), string(model.ImpactMedium), string(model.ImpactLow),
	}
	return s
}

func riskSchema() *protocol.Schema {
	s := protocol.ArrayOf("category", "riskLevel", "description", "mitigation")
	s.Items.Properties["riskLevel"].Enum = []string{
		string(model.RiskCritical), string(model.RiskStable), string(model.RiskWarning),
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
