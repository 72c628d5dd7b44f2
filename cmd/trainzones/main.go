// Command trainzones fits the rainfall zone model from a historical
// rainfall CSV and writes the persisted model bundle.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"drought-service/internal/features"
	"drought-service/internal/zones"

	"github.com/gocarina/gocsv"
	"github.com/schollz/progressbar/v3"
)

type rainfallRow struct {
	IDNumber   string  `csv:"id_number"`
	Year       int     `csv:"year"`
	Month      int     `csv:"month"`
	RainfallMM float64 `csv:"rainfall_mm"`
}

func main() {
	var (
		inputPath    = flag.String("input", "rainfall.csv", "historical rainfall CSV (id_number, year, month, rainfall_mm)")
		outputPath   = flag.String("output", "rainfall_zone_model.json", "path for the trained model bundle")
		profilesPath = flag.String("profiles", "zone_profiles.json", "path for the zone profiles summary")
		zoneCount    = flag.Int("zones", 4, "number of zones to fit")
		seed         = flag.Int64("seed", 42, "random seed for reproducible clustering")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	file, err := os.Open(*inputPath)
	if err != nil {
		logger.Error("failed to open input", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	defer file.Close()

	var rows []rainfallRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		logger.Error("failed to parse rainfall CSV", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	logger.Info("rainfall records loaded", "records", len(rows))

	byLocation := make(map[string][]features.Record)
	for _, row := range rows {
		byLocation[row.IDNumber] = append(byLocation[row.IDNumber], features.Record{
			Year:       row.Year,
			Month:      row.Month,
			RainfallMM: row.RainfallMM,
		})
	}

	bar := progressbar.Default(int64(len(byLocation)), "extracting features")
	vectors := make(map[string]features.Vector, len(byLocation))
	for id, records := range byLocation {
		vectors[id] = features.Extract(records)
		bar.Add(1)
	}

	result, err := zones.Train(vectors, zones.TrainOptions{Zones: *zoneCount, Seed: *seed})
	if err != nil {
		logger.Error("training failed", "error", err)
		os.Exit(1)
	}

	if err := result.Bundle.Save(*outputPath); err != nil {
		logger.Error("failed to save model bundle", "error", err)
		os.Exit(1)
	}
	logger.Info("model bundle saved", "path", *outputPath, "locations", result.Bundle.Locations)

	if err := writeProfiles(*profilesPath, result.Bundle.Profiles); err != nil {
		logger.Error("failed to save zone profiles", "error", err)
		os.Exit(1)
	}

	printSummary(result)
}

func writeProfiles(path string, profiles map[int]zones.Profile) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printSummary(result *zones.TrainResult) {
	zoneIDs := make([]int, 0, len(result.Bundle.Profiles))
	for id := range result.Bundle.Profiles {
		zoneIDs = append(zoneIDs, id)
	}
	sort.Ints(zoneIDs)

	for _, id := range zoneIDs {
		p := result.Bundle.Profiles[id]
		fmt.Printf("%s: %s (%d locations, avg rainfall %.0fmm, drought risk %s, premium x%.2f)\n",
			p.ZoneName, p.ZoneType, p.Size, p.AvgTotalRainfall, p.DroughtRisk, p.PremiumMultiplier)
	}
}
