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

	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
)

// Member is the read-only view of a community member used for matching and notifications.
type Member struct {
	MemberId    string    `json:"member_id" bson:"member_id" yaml:"member_id"`
	Name        string    `json:"name" bson:"name" yaml:"name"`
	Email       string    `json:"email" bson:"email" yaml:"email"`
	Status      string    `json:"status" bson:"status" yaml:"status"`
	JoinDate    time.Time `json:"join_date" bson:"join_date" yaml:"join_date"`
	Expertise   []string  `json:"expertise" bson:"expertise" yaml:"expertise"`
	LookingFor  []string  `json:"looking_for" bson:"looking_for" yaml:"looking_for"`
	CanHelpWith []string  `json:"can_help_with" bson:"can_help_with" yaml:"can_help_with"`
	Industry    []string  `json:"industry" bson:"industry" yaml:"industry"`
}

// IsActive reports whether the member is eligible for introductions.
func (m *Member) IsActive() bool {
	return m != nil && m.Status == constants.MemberStatusActive
}
