package recommender

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/config"
)

const testArtifact = `{
  "version": 1,
  "models": {
    "random_forest": {
      "classes": {
        "rice":     {"mean": {"N": 90, "P": 42, "K": 43, "temperature": 21, "humidity": 82, "ph": 6.5, "rainfall": 203},
                     "scale": {"N": 10, "P": 5, "K": 5, "temperature": 3, "humidity": 5, "ph": 0.5, "rainfall": 30}},
        "chickpea": {"mean": {"N": 40, "P": 67, "K": 79, "temperature": 18, "humidity": 16, "ph": 7.3, "rainfall": 80},
                     "scale": {"N": 10, "P": 5, "K": 5, "temperature": 3, "humidity": 5, "ph": 0.5, "rainfall": 30}}
      }
    },
    "gradient_boost": {
      "classes": {
        "rice":     {"mean": {"N": 88, "P": 40, "K": 41, "temperature": 22, "humidity": 80, "ph": 6.4, "rainfall": 200},
                     "scale": {"N": 10, "P": 5, "K": 5, "temperature": 3, "humidity": 5, "ph": 0.5, "rainfall": 30}},
        "chickpea": {"mean": {"N": 42, "P": 65, "K": 77, "temperature": 19, "humidity": 18, "ph": 7.2, "rainfall": 85},
                     "scale": {"N": 10, "P": 5, "K": 5, "temperature": 3, "humidity": 5, "ph": 0.5, "rainfall": 30}}
      }
    }
  },
  "feature_importance": {
    "random_forest": [
      {"feature": "rainfall", "importance": 0.28},
      {"feature": "humidity", "importance": 0.22},
      {"feature": "N", "importance": 0.16}
    ]
  }
}`

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crop_models.json")
	if err := os.WriteFile(path, []byte(testArtifact), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func riceFeatures() map[string]float64 {
	return map[string]float64{
		"N": 90, "P": 42, "K": 43,
		"temperature": 20.8, "humidity": 82, "ph": 6.5, "rainfall": 202.9,
	}
}

func TestBundleLoadMissing(t *testing.T) {
	b := NewBundle()
	err := b.Load(filepath.Join(t.TempDir(), "crop_models.json"))
	if err == nil {
		t.Fatal("expected error for missing artifact, got nil")
	}
	if !errors.Is(err, ErrModelNotTrained) {
		t.Errorf("error: got %v, want ErrModelNotTrained", err)
	}
}

func TestBundleLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crop_models.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	b := NewBundle()
	err := b.Load(path)
	if err == nil {
		t.Fatal("expected error for invalid artifact, got nil")
	}
	if errors.Is(err, ErrModelNotTrained) {
		t.Errorf("parse failure misreported as not-trained: %v", err)
	}
}

func TestBundleLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crop_models.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "models": {}}`), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	if err := NewBundle().Load(path); err == nil {
		t.Fatal("expected error for artifact with no models, got nil")
	}
}

func TestBundlePredictBeforeLoad(t *testing.T) {
	b := NewBundle()
	if _, err := b.Predict(context.Background(), riceFeatures(), config.DefaultModelType); err == nil {
		t.Fatal("expected error for predict before load, got nil")
	}
}

func TestBundlePredictRanksClosestCrop(t *testing.T) {
	b := NewBundle()
	if err := b.Load(writeArtifact(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name      string
		modelType string
	}{
		{"ensemble", config.DefaultModelType},
		{"single model", "random_forest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Predict(context.Background(), riceFeatures(), tt.modelType)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if len(got) == 0 {
				t.Fatal("predictions: got empty, want ranked crops")
			}
			if got[0].Crop != "rice" {
				t.Errorf("top crop: got %q, want %q", got[0].Crop, "rice")
			}
			for i := 1; i < len(got); i++ {
				if got[i].Confidence > got[i-1].Confidence {
					t.Errorf("predictions not ordered: %v before %v", got[i-1], got[i])
				}
			}
			var sum float64
			for _, p := range got {
				if p.Confidence <= 0 || p.Confidence > 1 {
					t.Errorf("confidence out of range: %v", p)
				}
				sum += p.Confidence
			}
			if sum > 1.0001 {
				t.Errorf("confidences sum to %v, want <= 1", sum)
			}
		})
	}
}

func TestBundlePredictUnknownModel(t *testing.T) {
	b := NewBundle()
	if err := b.Load(writeArtifact(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := b.Predict(context.Background(), riceFeatures(), "xgboost"); err == nil {
		t.Fatal("expected error for unknown model type, got nil")
	}
}

func TestBundlePredictCancelledContext(t *testing.T) {
	b := NewBundle()
	if err := b.Load(writeArtifact(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Predict(ctx, riceFeatures(), config.DefaultModelType); err == nil {
		t.Fatal("expected error on cancelled context, got nil")
	}
}

func TestBundlePredictZeroFeatures(t *testing.T) {
	b := NewBundle()
	if err := b.Load(writeArtifact(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	zero := make(map[string]float64)
	got, err := b.Predict(context.Background(), zero, config.DefaultModelType)
	if err != nil {
		t.Fatalf("Predict with zero features: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("predictions: got empty, want ranked crops even for zero features")
	}
}

func TestBundleFeatureImportance(t *testing.T) {
	b := NewBundle()
	if err := b.Load(writeArtifact(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := b.FeatureImportance("random_forest")
	if err != nil {
		t.Fatalf("FeatureImportance: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("importance entries: got %d, want 3", len(got))
	}
	if got[0].Feature != "rainfall" || got[0].Importance != 0.28 {
		t.Errorf("top importance: got %+v, want rainfall/0.28", got[0])
	}

	if _, err := b.FeatureImportance("gradient_boost"); err == nil {
		t.Error("expected error for model without stored importance, got nil")
	}
}

func TestBundleFeatureImportanceBeforeLoad(t *testing.T) {
	if _, err := NewBundle().FeatureImportance("random_forest"); err == nil {
		t.Fatal("expected error before load, got nil")
	}
}
