package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/config"
	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/metrics"
	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/recommender"
)

// importanceModel is the sub-model every feature-importance query names,
// independent of the model_type used for prediction.
const importanceModel = "random_forest"

// trainHint is the message attached to both model-missing error responses.
const trainHint = "train the models first: run the crop training pipeline to produce " + config.DefaultArtifactName

type successResponse struct {
	Success     bool                        `json:"success"`
	Predictions []recommender.Prediction    `json:"predictions"`
	Top         *recommender.Prediction     `json:"top_recommendation"`
	Importance  []recommender.FeatureWeight `json:"feature_importance"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError emits one JSON error document. message is the optional
// retraining hint; the generic failure path leaves it empty.
func WriteError(w io.Writer, errMsg, message string) error {
	return json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Error:   errMsg,
		Message: message,
	})
}

// Run handles one request/response pair: it reads a single JSON request from
// in, delegates to rec, and writes exactly one JSON document to out. A non-nil
// return means the error path was emitted and the process should exit 1.
func Run(ctx context.Context, in io.Reader, out io.Writer, rec recommender.Recommender, modelPath string, log *slog.Logger) error {
	start := time.Now()
	modelType := config.DefaultModelType
	outcome := "error"
	defer func() {
		metrics.Runs.WithLabelValues(modelType, outcome).Inc()
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	var raw map[string]any
	if err := json.NewDecoder(in).Decode(&raw); err != nil {
		WriteError(out, err.Error(), "")
		return fmt.Errorf("bridge: decode request: %w", err)
	}

	features := make(map[string]float64, len(recommender.FeatureNames))
	for _, name := range recommender.FeatureNames {
		features[name] = numberOrZero(raw[name])
	}
	modelType = stringOr(raw["model_type"], config.DefaultModelType)
	includeImportance := boolOr(raw["include_importance"])

	log.Info("request received",
		"model_type", modelType,
		"include_importance", includeImportance,
	)

	// Proactive existence check; Load keeps its own not-found branch for the
	// window between this stat and the read.
	if _, err := os.Stat(modelPath); err != nil {
		outcome = "model_missing"
		msg := fmt.Sprintf("model artifact not found at %s", modelPath)
		WriteError(out, msg, trainHint)
		return fmt.Errorf("bridge: %s", msg)
	}

	if err := rec.Load(modelPath); err != nil {
		if errors.Is(err, recommender.ErrModelNotTrained) {
			outcome = "not_trained"
			WriteError(out, "models not trained, run the training pipeline first", trainHint)
		} else {
			WriteError(out, err.Error(), "")
		}
		return fmt.Errorf("bridge: load model: %w", err)
	}

	predictions, err := rec.Predict(ctx, features, modelType)
	if err != nil {
		WriteError(out, err.Error(), "")
		return fmt.Errorf("bridge: predict: %w", err)
	}
	if predictions == nil {
		predictions = []recommender.Prediction{}
	}

	var importance []recommender.FeatureWeight
	if includeImportance {
		importance, err = rec.FeatureImportance(importanceModel)
		if err != nil {
			WriteError(out, err.Error(), "")
			return fmt.Errorf("bridge: feature importance: %w", err)
		}
		if importance == nil {
			importance = []recommender.FeatureWeight{}
		}
	}

	resp := successResponse{
		Success:     true,
		Predictions: predictions,
		Importance:  importance,
	}
	if len(predictions) > 0 {
		resp.Top = &predictions[0]
	}

	if err := json.NewEncoder(out).Encode(resp); err != nil {
		return fmt.Errorf("bridge: encode response: %w", err)
	}

	outcome = "ok"
	log.Info("request served",
		"predictions", len(predictions),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// numberOrZero coerces a decoded JSON value to a float64, defaulting to 0
// for absent or wrong-shaped values.
func numberOrZero(v any) float64 {
	n, ok := v.(float64)
	if !ok {
		return 0
	}
	return n
}

func stringOr(v any, fallback string) string {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

func boolOr(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
