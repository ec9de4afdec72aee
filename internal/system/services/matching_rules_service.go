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

package services

import (
	"net/http"
	"strings"

	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/handler"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

type MatchingRulesService struct {
	matchingRulesHandler *handler.MatchingRulesHandler
}

func NewMatchingRulesService() *MatchingRulesService {
	return &MatchingRulesService{
		matchingRulesHandler: handler.NewMatchingRulesHandler(),
	}
}

// Route handles the matching rule administration endpoints.
func (s *MatchingRulesService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method
	segments := utils.PathSegments(strings.TrimPrefix(path, constants.MatchingRulesApiPath))

	switch {
	case method == http.MethodGet && len(segments) == 0:
		s.matchingRulesHandler.GetMatchingRules(w, r)

	case method == http.MethodGet && len(segments) == 1:
		s.matchingRulesHandler.GetMatchingRule(w, r, segments[0])

	case method == http.MethodPatch && len(segments) == 1:
		s.matchingRulesHandler.PatchMatchingRule(w, r, segments[0])

	default:
		http.NotFound(w, r)
	}
}
