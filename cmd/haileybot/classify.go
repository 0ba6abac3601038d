package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/susu3304/haileybot/internal/config"
	"github.com/susu3304/haileybot/internal/vision"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [image-file]",
		Short: "Classify a food photo and print the bot's reply",
		Args:  cobra.ExactArgs(1),
		RunE:  runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	ctx := cmd.Context()

	foods := loadFoods(cfg)
	classifier, err := buildClassifier(ctx, cfg, foods)
	if err != nil {
		return err
	}
	preds, err := classifier.Classify(ctx, image)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), vision.FormatPredictions(preds, foods))
	return nil
}
