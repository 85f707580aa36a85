package services

import (
	"math"
	"math/rand"
)

// LabelScan is what the scanner extracts from a product label photo.
type LabelScan struct {
	ProductName       string  `json:"productName"`
	BatchCode         string  `json:"batchCode"`
	ExpiryDate        string  `json:"expiryDate"`
	ManufacturingDate string  `json:"manufacturingDate,omitempty"`
	Confidence        float64 `json:"confidence"`
	RawText           string  `json:"rawText"`
}

// VisionSource is the label-scanning capability. The mock picks from a fixed
// corpus of plausible labels; swap in a real OCR pipeline behind the same
// interface.
type VisionSource interface {
	ScanLabel() LabelScan
}

type MockVisionSource struct {
	rng *rand.Rand
}

func NewMockVisionSource(seed int64) *MockVisionSource {
	return &MockVisionSource{rng: rand.New(rand.NewSource(seed))}
}

var labelCorpus = []LabelScan{
	{
		ProductName: "Whole Milk",
		BatchCode:   "MILK-2024-001",
		ExpiryDate:  "2024-01-15",
		Confidence:  0.92,
		RawText:     "WHOLE MILK\n2L\nBEST BEFORE: 15/01/2024\nBATCH: MILK-2024-001\nNET WEIGHT: 2L",
	},
	{
		ProductName: "Sourdough Bread",
		BatchCode:   "BREAD-2024-001",
		ExpiryDate:  "2024-01-08",
		Confidence:  0.88,
		RawText:     "SOURDOUGH BREAD\nARTISAN BAKERY\nUSE BY: 08/01/2024\nBATCH: BREAD-2024-001\nWEIGHT: 500G",
	},
	{
		ProductName: "Chicken Breast",
		BatchCode:   "CHICKEN-2024-001",
		ExpiryDate:  "2024-01-10",
		Confidence:  0.85,
		RawText:     "CHICKEN BREAST\nFRESH\nEXPIRY: 10/01/2024\nBATCH: CHICKEN-2024-001\nWEIGHT: 1KG",
	},
	{
		ProductName: "Organic Apples",
		BatchCode:   "APPLES-2024-001",
		ExpiryDate:  "2024-01-20",
		Confidence:  0.90,
		RawText:     "ORGANIC APPLES\nPREMIUM QUALITY\nBEST BEFORE: 20/01/2024\nBATCH: APPLES-2024-001\nORIGIN: CHILE",
	},
}

func (m *MockVisionSource) ScanLabel() LabelScan {
	scan := labelCorpus[m.rng.Intn(len(labelCorpus))]
	// jitter the confidence so repeated scans look like separate readings
	scan.Confidence = math.Min(0.99, math.Max(0.5, scan.Confidence+(m.rng.Float64()-0.5)*0.1))
	return scan
}
