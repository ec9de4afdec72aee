/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/sink"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

const (
	defaultQueueSize     = 1000
	defaultMaxAttempts   = 3
	defaultRetryInterval = 500 * time.Millisecond
)

// NotificationWorker drains a bounded queue of notification events into a sink. Delivery is
// best-effort: an event that still fails after maxAttempts is logged and dropped.
type NotificationWorker struct {
	queue         chan model.Event
	sink          sink.Sink
	maxAttempts   int
	retryInterval time.Duration
	done          chan struct{}
	stopOnce      sync.Once
}

func NewNotificationWorker(target sink.Sink, queueSize, maxAttempts int, retryInterval time.Duration) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &NotificationWorker{
		queue:         make(chan model.Event, queueSize),
		sink:          target,
		maxAttempts:   maxAttempts,
		retryInterval: retryInterval,
		done:          make(chan struct{}),
	}
}

// Start launches the delivery goroutine.
func (w *NotificationWorker) Start() {
	go func() {
		defer close(w.done)
		for event := range w.queue {
			w.deliver(event)
		}
	}()
}

// Enqueue adds an event without blocking. It returns false when the queue is full or stopped.
func (w *NotificationWorker) Enqueue(event model.Event) (queued bool) {
	defer func() {
		// Sending on the closed queue after Stop.
		if recover() != nil {
			queued = false
		}
	}()
	select {
	case w.queue <- event:
		return true
	default:
		log.GetLogger().Error(fmt.Sprintf("Notification queue is full. Dropping %s for introduction: %s",
			event.Type, event.Introduction.IntroductionId))
		return false
	}
}

// Stop closes the queue, waits for queued events to be delivered or ctx to end, and closes the sink.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() {
		close(w.queue)
	})
	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return w.sink.Close()
}

func (w *NotificationWorker) deliver(event model.Event) {
	logger := log.GetLogger()
	var err error
	for event.Attempts < w.maxAttempts {
		if event.Attempts > 0 {
			time.Sleep(time.Duration(event.Attempts) * w.retryInterval)
		}
		if err = w.sink.Deliver(context.Background(), event); err == nil {
			logger.Debug("Notification delivered", log.String("event_id", event.EventId))
			return
		}
		event.Attempts++
		logger.Warn("Notification delivery failed", log.String("event_id", event.EventId),
			log.Int("attempt", event.Attempts), log.Error(err))
	}
	logger.Error("Giving up on notification",
		log.Error(utils.WrapWithContext(err, "notification %s for introduction %s not delivered after %d attempts",
			event.EventId, event.Introduction.IntroductionId, event.Attempts)))
}

var (
	notificationWorker *NotificationWorker
	notificationMu     sync.RWMutex
)

// StartNotificationWorker starts the process wide worker. Later calls are no-ops.
func StartNotificationWorker(target sink.Sink, queueSize, maxAttempts int) {

	notificationMu.Lock()
	defer notificationMu.Unlock()
	if notificationWorker != nil {
		return
	}
	notificationWorker = NewNotificationWorker(target, queueSize, maxAttempts, defaultRetryInterval)
	notificationWorker.Start()
}

// EnqueueNotification hands an event to the process wide worker.
// Returns true if successfully enqueued, false if the worker is not running or the queue is full.
func EnqueueNotification(event model.Event) bool {

	notificationMu.RLock()
	worker := notificationWorker
	notificationMu.RUnlock()
	if worker == nil {
		log.GetLogger().Error("Notification queue is not initialized. Cannot enqueue event.",
			log.String("event_id", event.EventId))
		return false
	}
	return worker.Enqueue(event)
}

// StopNotificationWorker drains and stops the process wide worker.
func StopNotificationWorker(ctx context.Context) error {

	notificationMu.Lock()
	worker := notificationWorker
	notificationWorker = nil
	notificationMu.Unlock()
	if worker == nil {
		return nil
	}
	return worker.Stop(ctx)
}

// NotificationWorkerRunning reports whether the process wide worker has been started.
func NotificationWorkerRunning() bool {

	notificationMu.RLock()
	defer notificationMu.RUnlock()
	return notificationWorker != nil
}
