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

// IntroductionRequest asks for a manual introduction between the caller and TargetMemberId.
type IntroductionRequest struct {
	RequesterId    string `json:"requester_id,omitempty"`
	TargetMemberId string `json:"target_member_id"`
}

type ScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

// TransitionEvent names a lifecycle change for notifications and audits.
type TransitionEvent string

const (
	EventRequested TransitionEvent = "requested"
	EventSuggested TransitionEvent = "suggested"
	EventAccepted  TransitionEvent = "accepted"
	EventDeclined  TransitionEvent = "declined"
	EventScheduled TransitionEvent = "scheduled"
	EventCompleted TransitionEvent = "completed"
	EventCancelled TransitionEvent = "cancelled"
	EventClosed    TransitionEvent = "closed"
)

// ActionResponse is returned after redeeming a one-click action link.
type ActionResponse struct {
	Action       string        `json:"action"`
	Introduction *Introduction `json:"introduction"`
}
