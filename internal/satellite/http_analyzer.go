package satellite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"drought-service/internal/models"

	"github.com/google/uuid"
)

// HTTPAnalyzer calls the imagery provider's analysis endpoint. The
// provider owns compositing and cloud masking; this adapter only maps
// its response onto a reading.
type HTTPAnalyzer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAnalyzer(baseURL string, timeout time.Duration) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type analyzeResponse struct {
	NDVI       *float64 `json:"ndvi"`
	NDMI       *float64 `json:"ndmi"`
	EVI        *float64 `json:"evi"`
	SAVI       *float64 `json:"savi"`
	NDRE       *float64 `json:"ndre"`
	BSI        *float64 `json:"bsi"`
	RainfallMM *float64 `json:"rainfall_mm"`
	ImageCount int      `json:"image_count"`
}

func (a *HTTPAnalyzer) AnalyzeFarm(ctx context.Context, farm *models.Farm, year, month int) (*models.MonthlyIndexReading, error) {
	endpoint := fmt.Sprintf("%s/analyze?%s", a.baseURL, url.Values{
		"farm_id": {farm.ID.String()},
		"year":    {strconv.Itoa(year)},
		"month":   {strconv.Itoa(month)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoData
	default:
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var body analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	if body.ImageCount == 0 {
		return nil, ErrNoData
	}

	return &models.MonthlyIndexReading{
		ID:         uuid.New(),
		FarmID:     farm.ID,
		Year:       year,
		Month:      month,
		NDVI:       body.NDVI,
		NDMI:       body.NDMI,
		EVI:        body.EVI,
		SAVI:       body.SAVI,
		NDRE:       body.NDRE,
		BSI:        body.BSI,
		RainfallMM: body.RainfallMM,
		ImageCount: body.ImageCount,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
