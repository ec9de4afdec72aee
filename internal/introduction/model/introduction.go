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

import (
	"time"
)

type Status string

const (
	StatusSuggested Status = "suggested"
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
)

// IsLive reports whether the status blocks a new introduction for the same pair.
func (s Status) IsLive() bool {
	switch s {
	case StatusSuggested, StatusPending, StatusAccepted, StatusScheduled:
		return true
	}
	return false
}

// IsTerminal reports whether the status can never change again.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDeclined, StatusCancelled, StatusClosed:
		return true
	}
	return false
}

// IsMet reports whether the introduction resulted in an actual meeting.
func (s Status) IsMet() bool {
	return s == StatusCompleted || s == StatusClosed
}

type Source string

const (
	SourceAuto   Source = "auto"
	SourceManual Source = "manual"
)

// Pair is an unordered pair of member ids in canonical order (Low < High).
type Pair struct {
	Low  string `json:"member_low_id"`
	High string `json:"member_high_id"`
}

// NewPair canonicalizes two member ids. The ids must differ.
func NewPair(a, b string) Pair {
	if a < b {
		return Pair{Low: a, High: b}
	}
	return Pair{Low: b, High: a}
}

// Has reports whether memberId is one side of the pair.
func (p Pair) Has(memberId string) bool {
	return p.Low == memberId || p.High == memberId
}

// Other returns the member on the other side of memberId.
func (p Pair) Other(memberId string) string {
	if p.Low == memberId {
		return p.High
	}
	return p.Low
}

type Introduction struct {
	IntroductionId string     `json:"introduction_id"`
	MemberLowId    string     `json:"member_low_id"`
	MemberHighId   string     `json:"member_high_id"`
	Status         Status     `json:"status"`
	Source         Source     `json:"source"`
	RequestedBy    string     `json:"requested_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int64      `json:"version"`
}

func (i *Introduction) Pair() Pair {
	return Pair{Low: i.MemberLowId, High: i.MemberHighId}
}

// IsParticipant reports whether memberId is one of the two introduced members.
func (i *Introduction) IsParticipant(memberId string) bool {
	return i.Pair().Has(memberId)
}

// TransitionFields are the optional columns a transition may set alongside the status.
type TransitionFields struct {
	UpdatedAt   time.Time
	ScheduledAt *time.Time
	CompletedAt *time.Time
}

// Note is one member's debrief for a completed introduction.
type Note struct {
	IntroductionId string    `json:"introduction_id"`
	AuthorId       string    `json:"author_id"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// PairHistoryEntry is a non-live introduction as seen by the scoring signals.
type PairHistoryEntry struct {
	Pair        Pair
	Status      Status
	CompletedAt *time.Time
	UpdatedAt   time.Time
}
