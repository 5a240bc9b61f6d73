package domain

// Canonical planning field names. Rules reference specification fields by
// these names in required_fields, conditions, and limits.
const (
	FieldCity               = "city"
	FieldLandUseZone        = "land_use_zone"
	FieldPlotAreaSqM        = "plot_area_sq_m"
	FieldPlotWidthM         = "plot_width_m"
	FieldPlotFrontageM      = "plot_frontage_m"
	FieldAbuttingRoadWidthM = "abutting_road_width_m"
	FieldBuildingUse        = "building_use"
	FieldBuildingType       = "building_type"
	FieldIsCoreArea         = "is_core_area"
	FieldHeightM            = "height_m"
	FieldFSI                = "fsi"
	FieldSetbackM           = "setback_m"
	FieldWidthM             = "width_m"
	FieldDepthM             = "depth_m"
)

// Specification is the canonical description of a proposed building and its
// planning context. The case ID is assigned once at normalization time and
// is carried unchanged through evaluations, geometry, and the summary.
// Optional fields are nil when absent; a sentinel zero is never stored.
type Specification struct {
	CaseID             string   `json:"case_id"`
	City               string   `json:"city"`
	LandUseZone        *string  `json:"land_use_zone,omitempty"`
	PlotAreaSqM        *float64 `json:"plot_area_sq_m,omitempty"`
	PlotWidthM         *float64 `json:"plot_width_m,omitempty"`
	PlotFrontageM      *float64 `json:"plot_frontage_m,omitempty"`
	AbuttingRoadWidthM *float64 `json:"abutting_road_width_m,omitempty"`
	BuildingUse        *string  `json:"building_use,omitempty"`
	BuildingType       *string  `json:"building_type,omitempty"`
	IsCoreArea         *bool    `json:"is_core_area,omitempty"`
	HeightM            *float64 `json:"height_m,omitempty"`
	FSI                *float64 `json:"fsi,omitempty"`
	SetbackM           *float64 `json:"setback_m,omitempty"`

	// Geometry helpers, mapped from plot dimensions during normalization.
	WidthM *float64 `json:"width_m,omitempty"`
	DepthM *float64 `json:"depth_m,omitempty"`
}

// Field returns the value of a canonical field by name, and whether it is
// present. Optional fields report absent when nil.
func (s *Specification) Field(name string) (any, bool) {
	switch name {
	case FieldCity:
		return s.City, s.City != ""
	case FieldLandUseZone:
		return deref(s.LandUseZone)
	case FieldPlotAreaSqM:
		return deref(s.PlotAreaSqM)
	case FieldPlotWidthM:
		return deref(s.PlotWidthM)
	case FieldPlotFrontageM:
		return deref(s.PlotFrontageM)
	case FieldAbuttingRoadWidthM:
		return deref(s.AbuttingRoadWidthM)
	case FieldBuildingUse:
		return deref(s.BuildingUse)
	case FieldBuildingType:
		return deref(s.BuildingType)
	case FieldIsCoreArea:
		return deref(s.IsCoreArea)
	case FieldHeightM:
		return deref(s.HeightM)
	case FieldFSI:
		return deref(s.FSI)
	case FieldSetbackM:
		return deref(s.SetbackM)
	case FieldWidthM:
		return deref(s.WidthM)
	case FieldDepthM:
		return deref(s.DepthM)
	}
	return nil, false
}

func deref[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}
