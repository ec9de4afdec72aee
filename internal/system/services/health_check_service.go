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

	"github.com/sr9691/circleblast-nexus-sub000/internal/health_check/handler"
)

// HealthService serves the probes outside the API base path.
type HealthService struct {
	probes map[string]http.HandlerFunc
}

func NewHealthService() *HealthService {
	healthHandler := handler.NewHealthHandler()
	return &HealthService{
		probes: map[string]http.HandlerFunc{
			"/health": healthHandler.HandleHealth,
			"/ready":  healthHandler.HandleReadiness,
		},
	}
}

// Paths lists the probe paths to register on the mux.
func (s *HealthService) Paths() []string {
	return []string{"/health", "/ready"}
}

func (s *HealthService) Route(w http.ResponseWriter, r *http.Request) {

	probe, ok := s.probes[strings.TrimSuffix(r.URL.Path, "/")]
	if !ok || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	probe(w, r)
}
