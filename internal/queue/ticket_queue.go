package queue

import (
	"context"

	"event-ticketing/internal/model"
)

type Delivery struct {
	Data *model.TicketLifecycleEvent
	Ack  func()
	Nack func(requeue bool)
}

type TicketQueue interface {
	// 發送票券事件到隊列
	Publish(ctx context.Context, event *model.TicketLifecycleEvent) error
	// 訂閱票券事件隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type MemoryTicketQueue struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.TicketLifecycleEvent
}

func NewMemoryTicketQueue(bufferSize int) TicketQueue {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &MemoryTicketQueue{
		ch: make(chan *model.TicketLifecycleEvent, bufferSize),
	}
}

// Publish 隊列滿時會阻塞到 ctx 結束
func (q *MemoryTicketQueue) Publish(ctx context.Context, event *model.TicketLifecycleEvent) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryTicketQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: event,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							// 簡單模擬重回隊列，滿了就丟棄
							select {
							case q.ch <- event:
							default:
							}
						}
					},
				}

				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
