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
	"strconv"

	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/service"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/pagination"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/security"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

type CycleHandler struct {
	service service.CycleServiceInterface
}

func NewCycleHandler() *CycleHandler {

	return &CycleHandler{
		service: provider.NewCycleProvider().GetCycleService(),
	}
}

func NewCycleHandlerWithService(cycleService service.CycleServiceInterface) *CycleHandler {

	return &CycleHandler{service: cycleService}
}

// RunCycle triggers a cycle. Manual runs are forced unless the caller passes force=false.
func (h *CycleHandler) RunCycle(w http.ResponseWriter, r *http.Request) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}
	force := true
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
				Code:        errors.BAD_REQUEST.Code,
				Message:     errors.BAD_REQUEST.Message,
				Description: "force must be true or false",
			}, http.StatusBadRequest))
			return
		}
		force = parsed
	}
	result, err := h.service.RunCycle(r.Context(), force)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result, constants.ResourceCycle)
}

func (h *CycleHandler) DryRun(w http.ResponseWriter, r *http.Request) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}
	limit, err := pagination.ParseLimit(r, constants.DefaultDryRunLimit, constants.MaxDryRunLimit)
	if err != nil {
		utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_LIMIT.Code,
			Message:     errors.INVALID_LIMIT.Message,
			Description: err.Error(),
		}, http.StatusBadRequest))
		return
	}
	preview, err := h.service.DryRun(r.Context(), limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, preview, constants.ResourceCycle)
}

func (h *CycleHandler) GetCycleStats(w http.ResponseWriter, r *http.Request) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}
	stats, err := h.service.GetCycleStats(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats, constants.ResourceCycle)
}

func (h *CycleHandler) GetLastCycle(w http.ResponseWriter, r *http.Request) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}
	last, err := h.service.GetLastCycle(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, last, constants.ResourceCycle)
}
