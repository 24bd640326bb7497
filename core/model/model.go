// Package model defines the real-estate domain records produced by the
// matching engine and consumed by the selection and map packages.
package model

import (
	"fmt"

	"github.com/tailored-agentic-units/landmatch/core/geo"
)

// AssetType identifies the development category a mandate targets.
type AssetType string

const (
	ResidentialTower    AssetType = "Residential Tower"
	MixedUseCommunities AssetType = "Mixed-Use Communities"
	CommercialHQ        AssetType = "Commercial HQ"
	IndustrialLogistics AssetType = "Industrial/Logistics"
	HospitalityResorts  AssetType = "Hospitality/Resorts"
)

// AssetTypes lists the supported asset types in display order.
func AssetTypes() []AssetType {
	return []AssetType{
		ResidentialTower,
		MixedUseCommunities,
		CommercialHQ,
		IndustrialLogistics,
		HospitalityResorts,
	}
}

// IsValid reports whether t is one of the supported asset types.
func (t AssetType) IsValid() bool {
	for _, known := range AssetTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Mandate holds an investor's search parameters for a single query.
// Location is best-effort and may be nil.
type Mandate struct {
	Capital      float64    `json:"capital"`
	TargetReturn float64    `json:"target_return"`
	AssetType    AssetType  `json:"asset_type"`
	Location     *geo.Point `json:"location,omitempty"`
}

// Validate checks that the mandate can be turned into a query.
func (m Mandate) Validate() error {
	if m.Capital <= 0 {
		return fmt.Errorf("%w: capital must be positive, got %v", ErrInvalidMandate, m.Capital)
	}
	if !m.AssetType.IsValid() {
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidMandate, m.AssetType)
	}
	return nil
}

// MatchCandidate is a sanitized land opportunity. Every field is populated
// after ingestion regardless of the shape the AI service returned.
type MatchCandidate struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Location       string    `json:"location"`
	Coordinates    geo.Point `json:"coordinates"`
	Size           string    `json:"size"`
	Price          string    `json:"price"`
	ProjectedIRR   float64   `json:"projectedIRR"`
	MatchScore     float64   `json:"matchScore"`
	Reasoning      string    `json:"reasoning"`
	Zoning         string    `json:"zoning"`
	SoilReport     string    `json:"soilReport"`
	Infrastructure []string  `json:"infrastructure"`
}

// GroundingSource is a citation returned alongside a grounded answer.
type GroundingSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MatchResult pairs matched sites with the sources that ground them.
// An empty result covers both "no answer" and "failed"; callers track
// loading state separately.
type MatchResult struct {
	Matches []MatchCandidate  `json:"matches"`
	Sources []GroundingSource `json:"sources"`
}

// EmptyResult returns a MatchResult with non-nil empty lists.
func EmptyResult() MatchResult {
	return MatchResult{
		Matches: []MatchCandidate{},
		Sources: []GroundingSource{},
	}
}

// Impact grades a compliance insight.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// ComplianceInsight is a regulatory observation for a project and location.
type ComplianceInsight struct {
	Title          string `json:"title"`
	Impact         Impact `json:"impact"`
	Description    string `json:"description"`
	SavingEstimate string `json:"savingEstimate"`
}

// RiskLevel grades a procurement risk.
type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskStable   RiskLevel = "Stable"
	RiskWarning  RiskLevel = "Warning"
)

// ProcurementRisk is a supply-chain risk item for a construction region.
type ProcurementRisk struct {
	Category    string    `json:"category"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	Description string    `json:"description"`
	Mitigation  string    `json:"mitigation"`
}

// MapMarker is a labelled pin. IsCurrent highlights the pin; ID, when set,
// identifies the candidate it stands for.
type MapMarker struct {
	ID        string  `json:"id,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Label     string  `json:"label"`
	IsCurrent bool    `json:"isCurrent"`
}

// Point returns the marker's position.
func (m MapMarker) Point() geo.Point {
	return geo.Point{Lat: m.Lat, Lng: m.Lng}
}
