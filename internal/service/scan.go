package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/llm"
	"github.com/nexable/smartcookly/backend/internal/vision"
)

// ScanImage is an uploaded fridge photo.
type ScanImage struct {
	Data     []byte
	MIMEType string
}

// ScanResult is what a scan found. Reason is set when the model's answer
// could not be used; that is not an error.
type ScanResult struct {
	Items    []fridge.FoodItem `json:"items"`
	Dropped  int               `json:"dropped"`
	Reason   string            `json:"reason,omitempty"`
	ImageURL string            `json:"image_url,omitempty"`
	Added    int               `json:"added"`
}

type ScanService struct {
	detector  *vision.Detector
	images    ImageStore
	inventory IInventoryService
	clocks    ClockSource
}

var _ IScanService = (*ScanService)(nil)

// NewScanService builds the scanner. images may be nil, in which case photos
// are sent to the model inline.
func NewScanService(detector *vision.Detector, images ImageStore, inventory IInventoryService, clocks ClockSource) *ScanService {
	return &ScanService{
		detector:  detector,
		images:    images,
		inventory: inventory,
		clocks:    clocks,
	}
}

// Scan detects the food in img. With autoAdd the detected items are merged
// into the user's fridge.
func (s *ScanService) Scan(ctx context.Context, userID uuid.UUID, img ScanImage, autoAdd bool) (*ScanResult, error) {
	photo := llm.Image{Data: img.Data, MIMEType: img.MIMEType}
	result := &ScanResult{}

	if s.images != nil {
		url, err := s.images.Put(ctx, scanImageKey(userID, img.MIMEType), img.Data, img.MIMEType)
		if err != nil {
			log.Printf("[ScanService] upload failed, sending image inline: %v", err)
		} else {
			photo.URL = url
			result.ImageURL = url
		}
	}

	today := s.clocks.Clock(ctx, userID).Today()
	parsed, err := s.detector.Detect(ctx, photo, today)
	if err != nil {
		return nil, err
	}
	result.Items = parsed.Items
	result.Dropped = parsed.Dropped
	result.Reason = parsed.Reason

	if autoAdd && len(parsed.Items) > 0 {
		if _, err := s.inventory.Add(ctx, userID, parsed.Items); err != nil {
			return nil, fmt.Errorf("failed to add scanned items: %w", err)
		}
		result.Added = len(parsed.Items)
	}
	log.Printf("[ScanService] user %s: %d items detected, %d added", userID, len(result.Items), result.Added)
	return result, nil
}
