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

	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/handler"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
)

type CyclesService struct {
	cycleHandler *handler.CycleHandler
}

func NewCyclesService() *CyclesService {
	return &CyclesService{
		cycleHandler: handler.NewCycleHandler(),
	}
}

// Route handles the cycle trigger and read endpoints.
func (s *CyclesService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimPrefix(strings.TrimSuffix(r.URL.Path, "/"), constants.CyclesApiPath)
	method := r.Method

	switch {
	case method == http.MethodPost && path == "/run":
		s.cycleHandler.RunCycle(w, r)

	case method == http.MethodGet && path == "/dry-run":
		s.cycleHandler.DryRun(w, r)

	case method == http.MethodGet && path == "/stats":
		s.cycleHandler.GetCycleStats(w, r)

	case method == http.MethodGet && path == "/last":
		s.cycleHandler.GetLastCycle(w, r)

	default:
		http.NotFound(w, r)
	}
}
