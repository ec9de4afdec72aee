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

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/scripts"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

// CycleStoreInterface guards cycle execution with a compare-and-set on the single cycle_runs row.
type CycleStoreInterface interface {
	// ClaimCycle sets last_run_at to now when force is set or the cooldown has elapsed, and reports
	// whether the claim succeeded.
	ClaimCycle(ctx context.Context, now time.Time, force bool, cooldown time.Duration) (bool, error)
	// CompleteCycle marks the claim made at claimedAt as a finished run.
	CompleteCycle(ctx context.Context, claimedAt time.Time) error
	// ReleaseCycle rolls last_run_at back to the latest completed run if the claim made at claimedAt
	// still holds.
	ReleaseCycle(ctx context.Context, claimedAt time.Time) error
	GetCycleRun(ctx context.Context) (*model.CycleRun, error)
}

type CycleStore struct{}

func NewCycleStore() CycleStoreInterface {
	return &CycleStore{}
}

func (s *CycleStore) ClaimCycle(ctx context.Context, now time.Time, force bool, cooldown time.Duration) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for claiming the cycle"
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	if _, err := dbClient.Execute(ctx, scripts.EnsureCycleRun[dbType]); err != nil {
		return false, claimError("Failed in creating the cycle run record", err)
	}
	threshold := now.Add(-cooldown).UnixMilli()
	results, err := dbClient.ExecuteQueryContext(ctx, scripts.ClaimCycle[dbType], now.UnixMilli(), force, threshold)
	if err != nil {
		return false, claimError("Failed in claiming the cycle", err)
	}
	return len(results) == 1, nil
}

func (s *CycleStore) ReleaseCycle(ctx context.Context, claimedAt time.Time) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for releasing the cycle"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.ReleaseCycle[provider.NewDBProvider().GetDBType()]
	if _, err := dbClient.Execute(ctx, query, claimedAt.UnixMilli()); err != nil {
		return claimError(fmt.Sprintf("Failed in releasing the cycle claimed at %s",
			claimedAt.Format(time.RFC3339)), err)
	}
	return nil
}

func (s *CycleStore) CompleteCycle(ctx context.Context, claimedAt time.Time) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := "Failed to get database client for completing the cycle"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.CompleteCycle[provider.NewDBProvider().GetDBType()]
	if _, err := dbClient.Execute(ctx, query, claimedAt.UnixMilli()); err != nil {
		return claimError(fmt.Sprintf("Failed in completing the cycle claimed at %s",
			claimedAt.Format(time.RFC3339)), err)
	}
	return nil
}

// GetCycleRun returns an empty run when no cycle has ever been claimed.
func (s *CycleStore) GetCycleRun(ctx context.Context) (*model.CycleRun, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching the cycle run"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.GetCycleRun[provider.NewDBProvider().GetDBType()])
	if err != nil {
		errorMsg := "Failed in fetching the cycle run"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CYCLE.Code,
			Message:     errors2.FETCH_CYCLE.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return &model.CycleRun{}, nil
	}
	return &model.CycleRun{
		LastRunAt:      utils.AsTimePtr(results[0]["last_run_at"]),
		CompletedRunAt: utils.AsTimePtr(results[0]["completed_run_at"]),
	}, nil
}

func claimError(errorMsg string, err error) error {
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.CLAIM_CYCLE.Code,
		Message:     errors2.CLAIM_CYCLE.Message,
		Description: errorMsg,
	}, err)
}
