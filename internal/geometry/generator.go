// Package geometry writes best-effort box-footprint artifacts for cases
// whose specifications carry usable dimensions. Artifact generation is
// advisory: the compliance pipeline records a missing artifact as "not
// generated" and carries on.
package geometry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultSetbackM     = 3.0
	defaultBuildingType = "residential"
)

type FileGenerator struct {
	dir    string
	logger *zap.Logger
}

func NewFileGenerator(dir string, logger *zap.Logger) *FileGenerator {
	return &FileGenerator{dir: dir, logger: logger}
}

type artifact struct {
	CaseID     string         `json:"case_id"`
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters"`
}

// Generate writes a box-footprint artifact for the case when height, width
// and depth are all present, returning its path. Missing dimensions return
// an empty path without error.
func (g *FileGenerator) Generate(ctx context.Context, spec *domain.Specification) (string, error) {
	if spec.HeightM == nil || spec.WidthM == nil || spec.DepthM == nil {
		g.logger.Debug("skipping geometry: missing dimensions",
			zap.String("case_id", spec.CaseID))
		return "", nil
	}

	setback := defaultSetbackM
	if spec.SetbackM != nil {
		setback = *spec.SetbackM
	}
	buildingType := defaultBuildingType
	if spec.BuildingType != nil {
		buildingType = *spec.BuildingType
	}

	a := artifact{
		CaseID: spec.CaseID,
		Kind:   "box",
		Parameters: map[string]any{
			domain.FieldHeightM:      *spec.HeightM,
			domain.FieldWidthM:       *spec.WidthM,
			domain.FieldDepthM:       *spec.DepthM,
			domain.FieldSetbackM:     setback,
			domain.FieldBuildingType: buildingType,
		},
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(g.dir, spec.CaseID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	g.logger.Info("geometry artifact written",
		zap.String("case_id", spec.CaseID),
		zap.String("path", path))
	return path, nil
}
