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
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/service"
	cnxcontext "github.com/sr9691/circleblast-nexus-sub000/internal/system/context"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

// StartCycleScheduler ticks the introduction cycle until ctx is done. Ticks never force, so the
// cooldown decides whether a tick actually runs a cycle.
func StartCycleScheduler(ctx context.Context, cycleService service.CycleServiceInterface, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.GetLogger().Info("Cycle scheduler started", log.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			log.GetLogger().Info("Cycle scheduler stopped")
			return
		case <-ticker.C:
			runScheduledCycle(ctx, cycleService)
		}
	}
}

func runScheduledCycle(ctx context.Context, cycleService service.CycleServiceInterface) {
	ctx, _ = cnxcontext.NewTraceContext(ctx, "")
	logger := log.ForContext(ctx)

	result, err := cycleService.RunCycle(ctx, false)
	if err != nil {
		logger.Error("Scheduled introduction cycle failed", log.Error(err))
		return
	}
	if result.Skipped {
		logger.Debug("Scheduled introduction cycle skipped", log.String("reason", result.Reason))
		return
	}
	logger.Info("Scheduled introduction cycle completed", log.Int("generated", result.Generated))
}
