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

package schedulers

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type recordingCycleService struct {
	mu     sync.Mutex
	forces []bool
}

func (s *recordingCycleService) RunCycle(ctx context.Context, force bool) (*model.CycleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forces = append(s.forces, force)
	return &model.CycleResult{Skipped: true, Reason: "cooldown"}, nil
}

func (s *recordingCycleService) DryRun(ctx context.Context, limit int) (*model.DryRunResponse, error) {
	return &model.DryRunResponse{}, nil
}

func (s *recordingCycleService) GetCycleStats(ctx context.Context) (*model.CycleStats, error) {
	return &model.CycleStats{}, nil
}

func (s *recordingCycleService) GetLastCycle(ctx context.Context) (*model.LastCycleResponse, error) {
	return &model.LastCycleResponse{}, nil
}

func (s *recordingCycleService) calls() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.forces...)
}

func TestStartCycleScheduler_TicksWithoutForceUntilCancelled(t *testing.T) {
	cycles := &recordingCycleService{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		StartCycleScheduler(ctx, cycles, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return len(cycles.calls()) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	for _, force := range cycles.calls() {
		assert.False(t, force)
	}
}
