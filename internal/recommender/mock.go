package recommender

import "context"

// Mock serves canned recommendations without a model artifact.
// Used for development and testing with the -mock flag.
type Mock struct{}

func (m *Mock) Load(path string) error { return nil }

func (m *Mock) Predict(ctx context.Context, features map[string]float64, modelType string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Prediction{
		{Crop: "rice", Confidence: 0.52},
		{Crop: "maize", Confidence: 0.31},
		{Crop: "chickpea", Confidence: 0.17},
	}, nil
}

func (m *Mock) FeatureImportance(model string) ([]FeatureWeight, error) {
	return []FeatureWeight{
		{Feature: "rainfall", Importance: 0.28},
		{Feature: "humidity", Importance: 0.21},
		{Feature: "N", Importance: 0.15},
		{Feature: "K", Importance: 0.12},
		{Feature: "P", Importance: 0.10},
		{Feature: "ph", Importance: 0.08},
		{Feature: "temperature", Importance: 0.06},
	}, nil
}
