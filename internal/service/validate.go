package service

import "github.com/nirmaan-ai/nirmaan/internal/domain"

// MandatoryPlanningFields must be present before any rule evaluation runs.
var MandatoryPlanningFields = []string{
	domain.FieldLandUseZone,
	domain.FieldPlotAreaSqM,
	domain.FieldAbuttingRoadWidthM,
	domain.FieldBuildingUse,
}

// ValidateSpec checks the mandatory planning context fields for presence.
// It returns true when all are present, otherwise false plus the names of
// the missing fields in declaration order.
func ValidateSpec(spec *domain.Specification) (bool, []string) {
	var missing []string
	for _, field := range MandatoryPlanningFields {
		if _, ok := spec.Field(field); !ok {
			missing = append(missing, field)
		}
	}
	return len(missing) == 0, missing
}
