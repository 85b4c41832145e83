package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/config"
)

// maxPredictions caps how many ranked crops a single Predict call returns.
const maxPredictions = 5

type classStats struct {
	Mean  map[string]float64 `json:"mean"`
	Scale map[string]float64 `json:"scale"`
}

type modelData struct {
	Classes map[string]classStats `json:"classes"`
}

type bundleFile struct {
	Version    int                        `json:"version"`
	Models     map[string]modelData       `json:"models"`
	Importance map[string][]FeatureWeight `json:"feature_importance"`
}

// Bundle serves predictions from a JSON model artifact written by the
// training pipeline. It holds per-model, per-crop feature statistics and a
// stored feature-importance table; training itself happens elsewhere.
type Bundle struct {
	data *bundleFile
}

func NewBundle() *Bundle {
	return &Bundle{}
}

func (b *Bundle) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("recommender: load %s: %w", path, ErrModelNotTrained)
		}
		return fmt.Errorf("recommender: load %s: %w", path, err)
	}

	var data bundleFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("recommender: parse artifact %s: %w", path, err)
	}
	if len(data.Models) == 0 {
		return fmt.Errorf("recommender: artifact %s contains no models", path)
	}

	b.data = &data
	return nil
}

func (b *Bundle) Predict(ctx context.Context, features map[string]float64, modelType string) ([]Prediction, error) {
	if b.data == nil {
		return nil, fmt.Errorf("recommender: predict before load")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recommender: predict: %w", err)
	}

	var models []modelData
	if modelType == config.DefaultModelType {
		for _, m := range b.data.Models {
			models = append(models, m)
		}
	} else {
		m, ok := b.data.Models[modelType]
		if !ok {
			return nil, fmt.Errorf("recommender: unknown model type %q", modelType)
		}
		models = append(models, m)
	}

	// Average each crop's score across the selected models, then rank.
	scores := make(map[string]float64)
	counts := make(map[string]int)
	for _, m := range models {
		for crop, stats := range m.Classes {
			scores[crop] += similarity(features, stats)
			counts[crop]++
		}
	}

	var total float64
	predictions := make([]Prediction, 0, len(scores))
	for crop, sum := range scores {
		score := sum / float64(counts[crop])
		predictions = append(predictions, Prediction{Crop: crop, Confidence: score})
		total += score
	}
	if total > 0 {
		for i := range predictions {
			predictions[i].Confidence /= total
		}
	}

	sort.Slice(predictions, func(i, j int) bool {
		if predictions[i].Confidence != predictions[j].Confidence {
			return predictions[i].Confidence > predictions[j].Confidence
		}
		return predictions[i].Crop < predictions[j].Crop
	})
	if len(predictions) > maxPredictions {
		predictions = predictions[:maxPredictions]
	}
	return predictions, nil
}

func (b *Bundle) FeatureImportance(model string) ([]FeatureWeight, error) {
	if b.data == nil {
		return nil, fmt.Errorf("recommender: feature importance before load")
	}
	ranking, ok := b.data.Importance[model]
	if !ok {
		return nil, fmt.Errorf("recommender: no feature importance stored for model %q", model)
	}
	out := make([]FeatureWeight, len(ranking))
	copy(out, ranking)
	return out, nil
}

// similarity maps the normalized distance between the input features and a
// crop's stored centroid into (0, 1], higher meaning closer.
func similarity(features map[string]float64, stats classStats) float64 {
	var dist float64
	for _, name := range FeatureNames {
		scale := stats.Scale[name]
		if scale <= 0 {
			scale = 1
		}
		d := features[name] - stats.Mean[name]
		if d < 0 {
			d = -d
		}
		dist += d / scale
	}
	dist /= float64(len(FeatureNames))
	return 1 / (1 + dist)
}
