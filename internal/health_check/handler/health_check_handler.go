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

package handler

import (
	"net/http"

	"github.com/sr9691/circleblast-nexus-sub000/internal/health_check/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/health_check/service"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

const resourceHealth = "health"

type HealthHandler struct {
	service service.HealthCheckServiceInterface
}

func NewHealthHandler() *HealthHandler {
	return NewHealthHandlerWithService(service.GetHealthCheckService())
}

func NewHealthHandlerWithService(healthService service.HealthCheckServiceInterface) *HealthHandler {
	return &HealthHandler{service: healthService}
}

// HandleHealth is a liveness check. It answers as long as the process serves HTTP.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, model.HealthReport{Status: model.StatusUp}, resourceHealth)
}

// HandleReadiness answers 503 with the failing components until every probe passes.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	report := h.service.CheckReadiness(r.Context())
	status := http.StatusOK
	if !report.IsUp() {
		status = http.StatusServiceUnavailable
	}
	utils.RespondJSON(w, status, report, resourceHealth)
}
