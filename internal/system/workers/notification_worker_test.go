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
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type flakySink struct {
	mu        sync.Mutex
	failures  map[string]int
	delivered []string
	attempts  map[string]int
	closed    bool
}

func newFlakySink(failures map[string]int) *flakySink {
	return &flakySink{failures: failures, attempts: map[string]int{}}
}

func (s *flakySink) Deliver(ctx context.Context, event model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[event.EventId]++
	if s.attempts[event.EventId] <= s.failures[event.EventId] {
		return errors.New("sink unavailable")
	}
	s.delivered = append(s.delivered, event.EventId)
	return nil
}

func (s *flakySink) Close() error {
	s.closed = true
	return nil
}

func event(id string) model.Event {
	return model.Event{EventId: id, Type: model.TypeIntroductionCreated,
		Introduction: intromodel.Introduction{IntroductionId: "i-" + id}}
}

func TestNotificationWorker_RetriesThenGivesUp(t *testing.T) {
	target := newFlakySink(map[string]int{"retried": 2, "dropped": 5})
	worker := NewNotificationWorker(target, 10, 3, time.Millisecond)
	worker.Start()

	require.True(t, worker.Enqueue(event("ok")))
	require.True(t, worker.Enqueue(event("retried")))
	require.True(t, worker.Enqueue(event("dropped")))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, worker.Stop(ctx))

	assert.Equal(t, []string{"ok", "retried"}, target.delivered)
	assert.Equal(t, 3, target.attempts["retried"])
	assert.Equal(t, 3, target.attempts["dropped"])
	assert.True(t, target.closed)
}

func TestNotificationWorker_EnqueueNeverBlocks(t *testing.T) {
	worker := NewNotificationWorker(newFlakySink(nil), 1, 1, time.Millisecond)

	assert.True(t, worker.Enqueue(event("first")))
	assert.False(t, worker.Enqueue(event("second")))

	worker.Start()
	require.NoError(t, worker.Stop(context.Background()))
	assert.False(t, worker.Enqueue(event("after-stop")))
}

func TestEnqueueNotification_WithoutWorker(t *testing.T) {
	assert.False(t, EnqueueNotification(event("orphan")))
}
