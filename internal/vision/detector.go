// Package vision identifies food items in fridge photos.
package vision

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/civil"

	"github.com/nexable/smartcookly/backend/internal/llm"
)

const detectionMaxTokens = 2000

// Detector asks a vision model for the food in a photo and parses its answer.
type Detector struct {
	model llm.VisionClient
}

func NewDetector(model llm.VisionClient) *Detector {
	return &Detector{model: model}
}

// Detect returns the items found in img, with expiration dates relative to
// today. Only a failed model call is an error; a malformed answer comes back
// as an empty ParseResult with a Reason.
func (d *Detector) Detect(ctx context.Context, img llm.Image, today civil.Date) (ParseResult, error) {
	content, err := d.model.DescribeImage(ctx, llm.Prompt{
		System:    systemPrompt,
		User:      detectionPrompt,
		MaxTokens: detectionMaxTokens,
	}, img)
	if err != nil {
		return ParseResult{}, fmt.Errorf("vision request failed: %w", err)
	}

	result := ParseDetectedItems(content, today)
	if !result.OK() {
		log.Printf("[Vision] unusable model response: %s", result.Reason)
	} else {
		log.Printf("[Vision] detected %d items (%d dropped)", len(result.Items), result.Dropped)
	}
	return result, nil
}
