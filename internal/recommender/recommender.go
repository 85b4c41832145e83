package recommender

import (
	"context"
	"errors"
)

// ErrModelNotTrained reports that no persisted model artifact exists yet.
var ErrModelNotTrained = errors.New("models not trained")

// FeatureNames lists the agronomic inputs every model consumes, in the
// order the training pipeline persists them.
var FeatureNames = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// Prediction is one ranked crop recommendation.
type Prediction struct {
	Crop       string  `json:"crop"`
	Confidence float64 `json:"confidence"`
}

// FeatureWeight is one entry of a model's feature-importance ranking.
type FeatureWeight struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Recommender is the contract for the crop recommendation model service.
type Recommender interface {
	// Load reads a persisted model artifact. Returns ErrModelNotTrained
	// (wrapped) when the artifact does not exist.
	Load(path string) error
	// Predict ranks crops for the given feature mapping, best first.
	// modelType selects a persisted sub-model, or "ensemble" for all of them.
	Predict(ctx context.Context, features map[string]float64, modelType string) ([]Prediction, error)
	// FeatureImportance returns the stored importance ranking of one sub-model.
	FeatureImportance(model string) ([]FeatureWeight, error)
}
