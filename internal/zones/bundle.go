package zones

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SchemaVersion identifies the bundle layout. Loaders reject bundles
// written with a different version instead of guessing compatibility.
const SchemaVersion = 1

// ModelBundle is the persisted zone model: fitted centroids, the scaler,
// the ordered feature list used for clustering, and a profile per zone.
// It is the only artifact the prediction path needs; training code is
// never consulted at inference time.
type ModelBundle struct {
	SchemaVersion int             `json:"schema_version"`
	TrainedAt     time.Time       `json:"trained_at"`
	Locations     int             `json:"locations"`
	Zones         int             `json:"zones"`
	FeatureNames  []string        `json:"feature_names"`
	Scaler        *Scaler         `json:"scaler"`
	Centroids     [][]float64     `json:"centroids"`
	Profiles      map[int]Profile `json:"profiles"`
	Inertia       float64         `json:"inertia"`
}

// Validate checks that the bundle's parts agree with each other before
// any prediction is attempted.
func (b *ModelBundle) Validate() error {
	if b.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported bundle schema version %d, want %d", b.SchemaVersion, SchemaVersion)
	}
	if len(b.FeatureNames) == 0 {
		return fmt.Errorf("bundle has no feature names")
	}
	if b.Scaler == nil {
		return fmt.Errorf("bundle has no scaler")
	}
	if len(b.Scaler.Means) != len(b.FeatureNames) || len(b.Scaler.Stds) != len(b.FeatureNames) {
		return fmt.Errorf("scaler fitted on %d features but bundle lists %d", len(b.Scaler.Means), len(b.FeatureNames))
	}
	if len(b.Centroids) == 0 {
		return fmt.Errorf("bundle has no centroids")
	}
	for i, c := range b.Centroids {
		if len(c) != len(b.FeatureNames) {
			return fmt.Errorf("centroid %d has %d dimensions but bundle lists %d features", i, len(c), len(b.FeatureNames))
		}
	}
	if len(b.Profiles) != len(b.Centroids) {
		return fmt.Errorf("bundle has %d profiles for %d zones", len(b.Profiles), len(b.Centroids))
	}
	for zone := range b.Centroids {
		if _, ok := b.Profiles[zone]; !ok {
			return fmt.Errorf("bundle missing profile for zone %d", zone)
		}
	}
	return nil
}

// Save writes the bundle as indented JSON.
func (b *ModelBundle) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model bundle: %w", err)
	}
	return nil
}

// LoadBundle reads and validates a persisted bundle.
func LoadBundle(path string) (*ModelBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model bundle: %w", err)
	}
	var b ModelBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse model bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model bundle %s: %w", path, err)
	}
	return &b, nil
}
