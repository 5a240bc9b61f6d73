package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/spf13/cast"
)

// Cities with rule sets in the reference corpus; used for fallback city
// detection when the caller does not name one explicitly.
var knownCities = []string{"Mumbai", "Pune", "Nashik", "Ahmedabad"}

var (
	heightPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:m|meter|metre)s?\s*(?:height|tall)?`)
	fsiPattern     = regexp.MustCompile(`fsi\s*(\d+(?:\.\d+)?)`)
	setbackPattern = regexp.MustCompile(`setback\s*(\d+(?:\.\d+)?)`)
)

// NormalizeSpec converts a free-text prompt into a canonical specification
// with a fresh case ID. An explicit city wins; otherwise the prompt is
// scanned for known city names; otherwise defaultCity applies. Numeric
// hints (height, FSI, setback) are extracted best-effort and left absent
// on no match. Normalization never fails.
func NormalizeSpec(prompt, city, defaultCity string) *domain.Specification {
	promptLower := strings.ToLower(prompt)

	if city == "" {
		for _, known := range knownCities {
			if strings.Contains(promptLower, strings.ToLower(known)) {
				city = known
				break
			}
		}
	}
	if city == "" {
		city = defaultCity
	}

	return &domain.Specification{
		CaseID:   NewCaseID(),
		City:     city,
		HeightM:  extractNumber(heightPattern, promptLower),
		FSI:      extractNumber(fsiPattern, promptLower),
		SetbackM: extractNumber(setbackPattern, promptLower),
	}
}

// NewCaseID returns an 8-character opaque case identifier.
func NewCaseID() string {
	return uuid.NewString()[:8]
}

func extractNumber(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// ApplyOverrides sets caller-supplied canonical fields on a normalized
// specification. Overrides win over extracted values; unknown keys and
// values that fail coercion are ignored. Applying the same override map
// twice is idempotent.
func ApplyOverrides(spec *domain.Specification, overrides map[string]any) {
	for field, raw := range overrides {
		if raw == nil {
			continue
		}
		switch field {
		case domain.FieldCity:
			if v, err := cast.ToStringE(raw); err == nil && v != "" {
				spec.City = v
			}
		case domain.FieldLandUseZone:
			setString(&spec.LandUseZone, raw)
		case domain.FieldBuildingUse:
			setString(&spec.BuildingUse, raw)
		case domain.FieldBuildingType:
			setString(&spec.BuildingType, raw)
		case domain.FieldIsCoreArea:
			if v, err := cast.ToBoolE(raw); err == nil {
				spec.IsCoreArea = &v
			}
		case domain.FieldPlotAreaSqM:
			setFloat(&spec.PlotAreaSqM, raw)
		case domain.FieldPlotWidthM:
			setFloat(&spec.PlotWidthM, raw)
		case domain.FieldPlotFrontageM:
			setFloat(&spec.PlotFrontageM, raw)
		case domain.FieldAbuttingRoadWidthM:
			setFloat(&spec.AbuttingRoadWidthM, raw)
		case domain.FieldHeightM:
			setFloat(&spec.HeightM, raw)
		case domain.FieldFSI:
			setFloat(&spec.FSI, raw)
		case domain.FieldSetbackM:
			setFloat(&spec.SetbackM, raw)
		case domain.FieldWidthM:
			setFloat(&spec.WidthM, raw)
		case domain.FieldDepthM:
			setFloat(&spec.DepthM, raw)
		}
	}
}

// DeriveGeometryFields maps the geometry helper dimensions from plot
// dimensions when present, so downstream geometry generation has usable
// inputs.
func DeriveGeometryFields(spec *domain.Specification) {
	if spec.PlotWidthM != nil {
		w := *spec.PlotWidthM
		spec.WidthM = &w
	}
	if spec.PlotFrontageM != nil {
		d := *spec.PlotFrontageM
		spec.DepthM = &d
	}
}

func setString(dst **string, raw any) {
	if v, err := cast.ToStringE(raw); err == nil {
		*dst = &v
	}
}

func setFloat(dst **float64, raw any) {
	if v, err := cast.ToFloat64E(raw); err == nil {
		*dst = &v
	}
}
