package services

import (
	"context"
	"time"

	"github.com/splatmarket/splatmarket/app/repositories"
	"github.com/splatmarket/splatmarket/config"
	"github.com/splatmarket/splatmarket/pkg/httpclient"
	"github.com/splatmarket/splatmarket/pkg/logger"
	"github.com/splatmarket/splatmarket/pkg/metrics"
)

// RenderService submits render jobs to the GPU cluster. A job is identified
// by the filename stem of the item's uploaded video.
type RenderService struct {
	items  *repositories.ItemRepository
	client *httpclient.Client
}

func NewRenderService(items *repositories.ItemRepository) *RenderService {
	return &RenderService{
		items:  items,
		client: httpclient.New(30 * time.Second).Retry(2),
	}
}

type renderJob struct {
	VideoFilename string `json:"video_filename"`
}

// Dispatch posts the item's render job to the cluster. The item must exist
// and have a video; cluster failures surface as ErrUnavailable.
func (s *RenderService) Dispatch(ctx context.Context, itemID uint) (string, error) {
	item, err := s.items.Find(itemID)
	if err != nil {
		return "", notFound(err)
	}
	if item.Video == nil {
		return "", ErrNotFound
	}

	stem := Stem(*item.Video)
	resp, err := s.client.PostJSON(ctx, config.RenderServerURL(), renderJob{VideoFilename: stem})
	if err != nil {
		metrics.RenderDispatches.WithLabelValues("error").Inc()
		logger.Error(ctx, "render dispatch failed", "item_id", itemID, "stem", stem, "error", err)
		return "", ErrUnavailable
	}
	if !resp.OK() {
		metrics.RenderDispatches.WithLabelValues("error").Inc()
		logger.Error(ctx, "render server rejected job", "item_id", itemID, "stem", stem, "status", resp.StatusCode)
		return "", ErrUnavailable
	}

	metrics.RenderDispatches.WithLabelValues("ok").Inc()
	logger.Info(ctx, "render job dispatched", "item_id", itemID, "stem", stem)
	return stem, nil
}
