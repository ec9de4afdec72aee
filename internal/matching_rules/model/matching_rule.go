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

// MatchingRule weights one scoring signal. RuleKey binds the rule to the signal.
type MatchingRule struct {
	RuleId      string    `json:"rule_id" bson:"rule_id"`
	RuleKey     string    `json:"rule_key" bson:"rule_key"`
	Label       string    `json:"label" bson:"label"`
	Description string    `json:"description" bson:"description"`
	Weight      float64   `json:"weight" bson:"weight"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Signal keys shipped with the service.
const (
	KeyNeverMet                 = "never_met"
	KeyExpertiseComplementarity = "expertise_complementarity"
	KeyLookingForAlignment      = "looking_for_alignment"
	KeyNewMemberBoost           = "new_member_boost"
	KeyIndustryDiversity        = "industry_diversity"
	KeyMeetingRecencyDecay      = "meeting_recency_decay"
)

// DefaultRules is the rule set seeded into an empty registry.
func DefaultRules() []MatchingRule {
	return []MatchingRule{
		{
			RuleKey:     KeyNeverMet,
			Label:       "Never met",
			Description: "Favors pairs that have never completed an introduction.",
			Weight:      5,
			IsActive:    true,
		},
		{
			RuleKey:     KeyExpertiseComplementarity,
			Label:       "Expertise complementarity",
			Description: "Share of what each member is looking for that the other lists as expertise.",
			Weight:      3,
			IsActive:    true,
		},
		{
			RuleKey:     KeyLookingForAlignment,
			Label:       "Looking-for alignment",
			Description: "Share of what each member is looking for that the other can help with.",
			Weight:      3,
			IsActive:    true,
		},
		{
			RuleKey:     KeyNewMemberBoost,
			Label:       "New-member boost",
			Description: "Boosts pairs that include a recently joined member.",
			Weight:      2,
			IsActive:    true,
		},
		{
			RuleKey:     KeyIndustryDiversity,
			Label:       "Industry diversity",
			Description: "Favors members from different industries.",
			Weight:      1,
			IsActive:    true,
		},
		{
			RuleKey:     KeyMeetingRecencyDecay,
			Label:       "Meeting recency decay",
			Description: "Penalizes pairs that met recently. The signal is negative inside the recency window.",
			Weight:      4,
			IsActive:    true,
		},
	}
}
