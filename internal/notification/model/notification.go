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

	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
)

// Event types published to the notification sink.
const (
	TypeIntroductionCreated    = "introduction.created"
	TypeIntroductionTransition = "introduction.transition"
)

// Event is one notification, addressed to a single member or, when RecipientId is empty, to both.
type Event struct {
	EventId      string                  `json:"event_id"`
	Type         string                  `json:"type"`
	Event        string                  `json:"event"`
	RecipientId  string                  `json:"recipient_id,omitempty"`
	Introduction intromodel.Introduction `json:"introduction"`
	Links        map[string]string       `json:"links,omitempty"`
	OccurredAt   time.Time               `json:"occurred_at"`
	// Attempts is the number of failed deliveries so far.
	Attempts int `json:"-"`
}

// Key partitions events of one introduction together.
func (e *Event) Key() string {
	return e.Introduction.IntroductionId
}
