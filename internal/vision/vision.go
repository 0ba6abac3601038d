// Package vision picks an image out of an update, sends it to an image
// classifier and formats the predictions for the chat reply.
package vision

import (
	"context"
	"errors"
)

var (
	ErrUpstream          = errors.New("image classification service failed")
	ErrMissingAttachment = errors.New("no usable image attachment")
)

// Prediction is one label returned by a classifier.
type Prediction struct {
	Label string
	Score float64
}

// Classifier labels raw image bytes.
type Classifier interface {
	Classify(ctx context.Context, image []byte) ([]Prediction, error)
}
