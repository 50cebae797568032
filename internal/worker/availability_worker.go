package worker

import (
	"context"

	"event-ticketing/internal/queue"
	"event-ticketing/pkg/logger"

	"go.uber.org/zap"
)

// AvailabilityRefresher 由 EventService 實作
type AvailabilityRefresher interface {
	RefreshAvailability(ctx context.Context, eventID int) error
}

type AvailabilityWorker interface {
	// 訂閱票券生命週期事件，背景刷新活動容量快取
	Start(ctx context.Context) error
}

type AvailabilityWorkerImpl struct {
	refresher AvailabilityRefresher
	queue     queue.TicketQueue
	log       *zap.Logger
}

func NewAvailabilityWorker(refresher AvailabilityRefresher, queue queue.TicketQueue) AvailabilityWorker {
	return &AvailabilityWorkerImpl{
		refresher: refresher,
		queue:     queue,
		log:       logger.WithComponent("worker"),
	}
}

func (w *AvailabilityWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			event := msg.Data
			if err := w.refresher.RefreshAvailability(ctx, event.EventID); err != nil {
				// 快取刷新失敗，留給 queue 重送
				w.log.Warn("refresh availability failed",
					zap.String("type", string(event.Type)),
					zap.Int("event_id", event.EventID),
					zap.Error(err),
				)
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
		w.log.Info("availability worker stopped")
	}()
	return nil
}
