// Package zones trains and serves the rainfall zone model: k-means
// clustering over scaled rainfall features, with per-zone profiles used
// for premium pricing.
package zones

import (
	"fmt"
	"sort"
	"time"

	"drought-service/internal/features"
)

// clusterFeatureNames is the fixed feature subset used for clustering:
// totals, variability, rainy-day and dry-spell statistics, plus the
// means of the months preceding the two harvests (Nov, Dec, Jun).
var clusterFeatureNames = []string{
	"total_rainfall",
	"mean_rainfall",
	"cv_rainfall",
	"rainy_days_percent",
	"mean_rainy_day_intensity",
	"max_dry_spell",
	"avg_dry_spell",
	"dry_spell_frequency",
	"month_11_mean",
	"month_12_mean",
	"month_6_mean",
}

// ClusterFeatureNames returns a copy of the clustering feature subset.
func ClusterFeatureNames() []string {
	out := make([]string, len(clusterFeatureNames))
	copy(out, clusterFeatureNames)
	return out
}

type TrainOptions struct {
	Zones         int
	Seed          int64
	MaxIterations int
	Restarts      int
}

func (o TrainOptions) withDefaults() TrainOptions {
	if o.Zones == 0 {
		o.Zones = 4
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = 300
	}
	if o.Restarts == 0 {
		o.Restarts = 10
	}
	return o
}

// TrainResult pairs the persisted bundle with the per-location zone
// assignments observed during training.
type TrainResult struct {
	Bundle      *ModelBundle
	Assignments map[string]int
}

// Train fits the zone model over one feature vector per location.
// Locations are processed in sorted id order so a fixed seed always
// reproduces the same zones.
func Train(vectors map[string]features.Vector, opts TrainOptions) (*TrainResult, error) {
	opts = opts.withDefaults()

	if len(vectors) == 0 {
		return nil, fmt.Errorf("no locations to train on")
	}

	ids := make([]string, 0, len(vectors))
	for id := range vectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]float64, len(ids))
	for i, id := range ids {
		row, err := selectFeatures(vectors[id])
		if err != nil {
			return nil, fmt.Errorf("location %s: %w", id, err)
		}
		rows[i] = row
	}

	scaler := FitScaler(rows)
	scaled, err := scaler.TransformAll(rows)
	if err != nil {
		return nil, err
	}

	centroids, labels, inertia, err := fitKMeans(scaled, opts.Zones, opts.MaxIterations, opts.Restarts, opts.Seed)
	if err != nil {
		return nil, err
	}

	members := make(map[int][]features.Vector, opts.Zones)
	assignments := make(map[string]int, len(ids))
	for i, id := range ids {
		zone := labels[i]
		assignments[id] = zone
		members[zone] = append(members[zone], vectors[id])
	}

	profiles := make(map[int]Profile, len(centroids))
	for zone := range centroids {
		profiles[zone] = buildProfile(zone, members[zone])
	}

	bundle := &ModelBundle{
		SchemaVersion: SchemaVersion,
		TrainedAt:     time.Now().UTC(),
		Locations:     len(ids),
		Zones:         opts.Zones,
		FeatureNames:  ClusterFeatureNames(),
		Scaler:        scaler,
		Centroids:     centroids,
		Profiles:      profiles,
		Inertia:       inertia,
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("trained bundle failed validation: %w", err)
	}

	return &TrainResult{Bundle: bundle, Assignments: assignments}, nil
}

// selectFeatures projects a full feature vector onto the clustering
// subset, in a fixed order. A missing feature is a hard error since the
// scaler's statistics assume every column is populated.
func selectFeatures(v features.Vector) ([]float64, error) {
	row := make([]float64, len(clusterFeatureNames))
	for i, name := range clusterFeatureNames {
		val, ok := v[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrFeatureMismatch, name)
		}
		row[i] = val
	}
	return row, nil
}
