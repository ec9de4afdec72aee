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

package model

import "time"

// CycleResult is the outcome of one run_cycle call.
type CycleResult struct {
	Skipped   bool   `json:"skipped"`
	Generated int    `json:"generated"`
	Reason    string `json:"reason,omitempty"`
}

// CycleRun is the single cooldown record. CompletedRunAt is the claim time of the latest cycle that
// ran to the end, which is where a released claim falls back to.
type CycleRun struct {
	LastRunAt      *time.Time `json:"last_run_at"`
	CompletedRunAt *time.Time `json:"-"`
}

// CycleStats are recomputed on read over every auto introduction ever created.
type CycleStats struct {
	GeneratedTotal int64      `json:"generated_total"`
	PendingTotal   int64      `json:"pending_total"`
	AcceptedTotal  int64      `json:"accepted_total"`
	DeclinedTotal  int64      `json:"declined_total"`
	LastRunAt      *time.Time `json:"last_run_at"`
}

// DryRunCandidate is a pair the next cycle would suggest.
type DryRunCandidate struct {
	MemberLowId  string  `json:"member_low_id"`
	MemberHighId string  `json:"member_high_id"`
	Score        float64 `json:"score"`
}

type DryRunResponse struct {
	Candidates []DryRunCandidate `json:"candidates"`
	Members    int               `json:"members"`
}

type LastCycleResponse struct {
	LastRunAt *time.Time `json:"last_run_at"`
}
