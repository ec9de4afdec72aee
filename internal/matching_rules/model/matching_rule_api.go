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

// MatchingRuleUpdateRequest is a partial update. Absent fields keep their value.
type MatchingRuleUpdateRequest struct {
	Weight   *float64 `json:"weight"`
	IsActive *bool    `json:"is_active"`
}

type MatchingRuleAPIResponse struct {
	RuleId      string  `json:"rule_id"`
	RuleKey     string  `json:"rule_key"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
	IsActive    bool    `json:"is_active"`
	UpdatedAt   string  `json:"updated_at"`
}
