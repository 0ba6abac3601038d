package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/susu3304/haileybot/internal/config"
	"github.com/susu3304/haileybot/internal/food"
	"github.com/susu3304/haileybot/internal/stock"
	"github.com/susu3304/haileybot/internal/vision"
)

// loadFoods falls back to an empty table; unknown labels still get the
// default calories and recommendation.
func loadFoods(cfg *config.Config) *food.Table {
	table, err := food.LoadFile(cfg.FoodMappingFile)
	if err != nil {
		log.Printf("Food mapping unavailable, using defaults: %v", err)
		table, _ = food.Parse(strings.NewReader(""))
		return table
	}
	log.Printf("Loaded %d food labels from %s", table.Len(), cfg.FoodMappingFile)
	return table
}

func buildQuoter(cfg *config.Config) stock.Quoter {
	if cfg.StockProvider == "yahoo" {
		return stock.NewYahooClient()
	}
	return stock.NewClient(cfg.StockAPIURL, cfg.HTTPTimeout)
}

func buildClassifier(ctx context.Context, cfg *config.Config, foods *food.Table) (vision.Classifier, error) {
	switch cfg.ClassifierBackend {
	case "openai":
		return vision.NewOpenAIClassifier(vision.OpenAIOptions{
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.OpenAIModel,
			ScoreThreshold: cfg.ScoreThreshold,
			Timeout:        cfg.HTTPTimeout,
			Labels:         foods.Labels(),
		}), nil
	case "automl":
		return vision.NewAutoMLClassifier(ctx, vision.AutoMLOptions{
			Project:        cfg.GCloudProject,
			Region:         cfg.GCloudRegion,
			ModelID:        cfg.ModelID,
			ScoreThreshold: cfg.ScoreThreshold,
			Timeout:        cfg.HTTPTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown CLASSIFIER_BACKEND %q", cfg.ClassifierBackend)
	}
}
