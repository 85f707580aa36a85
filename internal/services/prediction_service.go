package services

import (
	"encoding/json"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"expyra/internal/domain"
	"expyra/internal/repos"
)

type ForecastFactors struct {
	Seasonality float64 `json:"seasonality"`
	Trend       float64 `json:"trend"`
	Random      float64 `json:"random"`
}

type ForecastPoint struct {
	Date              string          `json:"date"`
	PredictedQuantity int             `json:"predictedQuantity"`
	Confidence        float64         `json:"confidence"`
	Factors           ForecastFactors `json:"factors"`
}

// PredictionSource is the forecasting capability. The mock below generates
// plausible-looking noise; a real model slots in behind the same interface.
type PredictionSource interface {
	Forecast(productID, category string, days int, from time.Time) []ForecastPoint
}

// MockPredictionSource produces randomized forecasts with a seasonal wave, a
// mild upward trend and noise. Shape only; there is no model behind it.
type MockPredictionSource struct {
	rng *rand.Rand
}

func NewMockPredictionSource(seed int64) *MockPredictionSource {
	return &MockPredictionSource{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockPredictionSource) Forecast(productID, category string, days int, from time.Time) []ForecastPoint {
	base := float64(100 + m.rng.Intn(200))
	out := make([]ForecastPoint, 0, days)
	for i := 0; i < days; i++ {
		seasonality := 1 + 0.3*math.Sin(float64(i)/30*2*math.Pi)
		trend := 1 + float64(i)/float64(days)*0.2
		random := 0.8 + m.rng.Float64()*0.4

		qty := int(math.Round(base * seasonality * trend * random))
		confidence := 0.85 + (m.rng.Float64()-0.5)*0.2
		confidence = math.Max(0.7, math.Min(0.95, confidence))

		out = append(out, ForecastPoint{
			Date:              from.AddDate(0, 0, i).Format("2006-01-02"),
			PredictedQuantity: qty,
			Confidence:        confidence,
			Factors:           ForecastFactors{Seasonality: seasonality, Trend: trend, Random: random},
		})
	}
	return out
}

type PredictionService struct {
	Products    *ProductService
	Predictions *repos.PredictionRepo
	Source      PredictionSource
	Now         func() time.Time
}

func NewPredictionService(products *ProductService, predictions *repos.PredictionRepo, source PredictionSource) *PredictionService {
	return &PredictionService{Products: products, Predictions: predictions, Source: source, Now: time.Now}
}

// Generate runs the source for a product and persists the result. Stored
// predictions are read-only afterwards.
func (s *PredictionService) Generate(productID string, days int) ([]domain.SalesPrediction, error) {
	if days < 1 || days > 90 {
		return nil, domain.ValidationError{Field: "timeRange", Reason: "must span 1 to 90 days"}
	}
	p, err := s.Products.Get(productID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	points := s.Source.Forecast(p.ID, p.Category, days, now)
	created := domain.FormatTime(now)

	out := make([]domain.SalesPrediction, 0, len(points))
	for _, pt := range points {
		factors, _ := json.Marshal(pt.Factors)
		fs := string(factors)
		sp := domain.SalesPrediction{
			ID:                uuid.NewString(),
			ProductID:         p.ID,
			PredictedDate:     pt.Date,
			PredictedQuantity: pt.PredictedQuantity,
			Confidence:        pt.Confidence,
			FactorsJSON:       &fs,
			CreatedAt:         created,
		}
		if err := s.Predictions.Insert(sp); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, nil
}

func (s *PredictionService) List(productID string, limit int) ([]domain.SalesPrediction, error) {
	if limit < 1 {
		limit = 30
	}
	var (
		out []domain.SalesPrediction
		err error
	)
	if productID != "" {
		if _, err = s.Products.Get(productID); err != nil {
			return nil, err
		}
		out, err = s.Predictions.ListByProduct(productID, limit)
	} else {
		out, err = s.Predictions.List(limit)
	}
	if out == nil {
		out = []domain.SalesPrediction{}
	}
	return out, err
}
