package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/nirmaan-ai/nirmaan/internal/store"
	"go.uber.org/zap"
)

const (
	// DefaultAlpha is the exponential-moving-average learning rate.
	DefaultAlpha = 0.1

	// explorationThreshold is the visit count at which exploration noise
	// reaches zero.
	explorationThreshold = 10

	// explorationFactor scales the Gaussian noise relative to the current
	// estimate, so parameters on different scales explore proportionally.
	explorationFactor = 0.15

	defaultBuildingType = "residential"
)

// defaultEstimates are the priors applied to every unseen state.
func defaultEstimates() map[string]float64 {
	return map[string]float64{
		domain.FieldHeightM:  15.0,
		domain.FieldFSI:      2.0,
		domain.FieldSetbackM: 3.0,
	}
}

// PolicyService is the per-(city, building type) online estimator of good
// parameter values. Estimates move toward observed parameters only on
// positive reward; negative reward just burns down the exploration budget.
// All state access is serialized by an internal mutex, so one instance is
// safe to share across request handlers.
type PolicyService struct {
	mu        sync.Mutex
	alpha     float64
	states    map[string]*domain.PolicyState
	snapshots domain.PolicySnapshotStore
	logger    *zap.Logger
}

func NewPolicyService(alpha float64, snapshots domain.PolicySnapshotStore, logger *zap.Logger) *PolicyService {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}
	return &PolicyService{
		alpha:     alpha,
		states:    make(map[string]*domain.PolicyState),
		snapshots: snapshots,
		logger:    logger,
	}
}

// LoadSnapshot restores policy state from the snapshot store. A missing
// snapshot yields a fresh policy; a corrupt or unreachable store is logged
// and likewise degrades to fresh state rather than failing startup.
func (s *PolicyService) LoadSnapshot(ctx context.Context) {
	if s.snapshots == nil {
		return
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("policy snapshot load failed, starting fresh", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Alpha > 0 && snap.Alpha < 1 {
		s.alpha = snap.Alpha
	}
	if snap.States != nil {
		s.states = snap.States
	}
	s.logger.Info("policy snapshot loaded",
		zap.Int("states", len(s.states)),
		zap.Float64("alpha", s.alpha))
}

// StateKey builds the case-insensitive lookup key for a (city, building
// type) pair. An empty building type defaults to residential.
func StateKey(city, buildingType string) string {
	if buildingType == "" {
		buildingType = defaultBuildingType
	}
	return strings.ToLower(city) + "|" + strings.ToLower(buildingType)
}

// Suggest returns the current estimates for the state, perturbed by
// independent Gaussian noise per parameter while the state is under-visited.
// Suggested values are clamped to be non-negative.
func (s *PolicyService) Suggest(city, buildingType string) map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.states[StateKey(city, buildingType)]
	estimates := defaultEstimates()
	visits := 0
	if state != nil {
		visits = state.VisitCount
		for k, v := range state.Estimates {
			estimates[k] = v
		}
	}

	suggestion := make(map[string]float64, len(estimates))
	for k, v := range estimates {
		v += rand.NormFloat64() * noiseSigma(v, visits)
		if v < 0 {
			v = 0
		}
		suggestion[k] = v
	}
	return suggestion
}

// noiseSigma is the exploration noise magnitude for one parameter. It
// decays linearly with the visit count and is exactly zero at and beyond
// the exploration threshold.
func noiseSigma(estimate float64, visits int) float64 {
	if visits >= explorationThreshold {
		return 0
	}
	decay := 1 - float64(visits)/float64(explorationThreshold)
	return explorationFactor * estimate * decay
}

// Update records one feedback outcome for the state. The visit count
// always increments; estimates move toward the observed parameters by EMA
// only when the reward is positive, and the parameter set is then appended
// to the success history. The snapshot store is written after every update.
func (s *PolicyService) Update(ctx context.Context, city string, parameters map[string]float64, reward int, buildingType string) {
	key := StateKey(city, buildingType)

	s.mu.Lock()
	state, ok := s.states[key]
	if !ok {
		state = &domain.PolicyState{Estimates: defaultEstimates()}
		s.states[key] = state
	}

	state.VisitCount++
	if reward > 0 {
		for k, observed := range parameters {
			if current, ok := state.Estimates[k]; ok {
				state.Estimates[k] = s.alpha*observed + (1-s.alpha)*current
			}
		}
		state.Successes = append(state.Successes, domain.PolicySuccess{
			Parameters: copyParams(parameters),
			RecordedAt: time.Now().UTC(),
		})
	}
	visits := state.VisitCount
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("policy updated",
		zap.String("state", key),
		zap.Int("reward", reward),
		zap.Int("visit_count", visits))

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, snap); err != nil {
			s.logger.Warn("policy snapshot save failed", zap.Error(err))
		}
	}
}

// SuccessRate is the fraction of visits that carried positive reward,
// zero for an unvisited state.
func (s *PolicyService) SuccessRate(city, buildingType string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.states[StateKey(city, buildingType)]
	if state == nil || state.VisitCount == 0 {
		return 0
	}
	return float64(len(state.Successes)) / float64(state.VisitCount)
}

// StateStats describes one learned state for reporting.
type StateStats struct {
	City              string             `json:"city"`
	BuildingType      string             `json:"building_type"`
	LearnedParameters map[string]float64 `json:"learned_parameters"`
	VisitCount        int                `json:"visit_count"`
	SuccessRate       float64            `json:"success_rate"`
}

// GlobalStats summarizes every learned state.
type GlobalStats struct {
	TotalStates int                   `json:"total_states"`
	TotalVisits int                   `json:"total_visits"`
	States      map[string]StateStats `json:"states"`
}

// Stats reports the learned parameters for one state. Unvisited states
// report the priors with a zero visit count.
func (s *PolicyService) Stats(city, buildingType string) StateStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked(city, buildingType)
}

func (s *PolicyService) statsLocked(city, buildingType string) StateStats {
	if buildingType == "" {
		buildingType = defaultBuildingType
	}

	estimates := defaultEstimates()
	visits := 0
	rate := 0.0
	if state := s.states[StateKey(city, buildingType)]; state != nil {
		estimates = copyParams(state.Estimates)
		visits = state.VisitCount
		if visits > 0 {
			rate = float64(len(state.Successes)) / float64(visits)
		}
	}

	return StateStats{
		City:              city,
		BuildingType:      buildingType,
		LearnedParameters: estimates,
		VisitCount:        visits,
		SuccessRate:       rate,
	}
}

// AllStats reports aggregate counts across every learned state.
func (s *PolicyService) AllStats() GlobalStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	global := GlobalStats{States: make(map[string]StateStats, len(s.states))}
	for key, state := range s.states {
		global.TotalStates++
		global.TotalVisits += state.VisitCount

		rate := 0.0
		if state.VisitCount > 0 {
			rate = float64(len(state.Successes)) / float64(state.VisitCount)
		}
		city, buildingType, _ := strings.Cut(key, "|")
		global.States[key] = StateStats{
			City:              city,
			BuildingType:      buildingType,
			LearnedParameters: copyParams(state.Estimates),
			VisitCount:        state.VisitCount,
			SuccessRate:       rate,
		}
	}
	return global
}

// Snapshot builds the serializable form of the whole policy.
func (s *PolicyService) Snapshot() *domain.PolicySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *PolicyService) snapshotLocked() *domain.PolicySnapshot {
	states := make(map[string]*domain.PolicyState, len(s.states))
	for key, state := range s.states {
		copied := &domain.PolicyState{
			Estimates:  copyParams(state.Estimates),
			VisitCount: state.VisitCount,
			Successes:  append([]domain.PolicySuccess(nil), state.Successes...),
		}
		states[key] = copied
	}
	return &domain.PolicySnapshot{Version: 1, Alpha: s.alpha, States: states}
}

func copyParams(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
