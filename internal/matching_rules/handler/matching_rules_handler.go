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
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/service"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	cnxcontext "github.com/sr9691/circleblast-nexus-sub000/internal/system/context"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/security"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

type MatchingRulesHandler struct {
	service service.MatchingRuleServiceInterface
}

func NewMatchingRulesHandler() *MatchingRulesHandler {

	return &MatchingRulesHandler{
		service: provider.NewMatchingRuleProvider().GetMatchingRuleService(),
	}
}

// NewMatchingRulesHandlerWithService builds a handler around an explicit service.
func NewMatchingRulesHandlerWithService(ruleService service.MatchingRuleServiceInterface) *MatchingRulesHandler {

	return &MatchingRulesHandler{service: ruleService}
}

// GetMatchingRules lists every matching rule.
func (h *MatchingRulesHandler) GetMatchingRules(w http.ResponseWriter, r *http.Request) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}
	rules, err := h.service.ListRules(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	rulesResponse := make([]model.MatchingRuleAPIResponse, 0, len(rules))
	for _, rule := range rules {
		rulesResponse = append(rulesResponse, toResponse(rule))
	}
	utils.RespondJSON(w, http.StatusOK, rulesResponse, constants.ResourceMatchingRule)
}

// GetMatchingRule fetches one matching rule.
func (h *MatchingRulesHandler) GetMatchingRule(w http.ResponseWriter, r *http.Request, ruleId string) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}
	rule, err := h.service.GetRule(r.Context(), ruleId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, toResponse(*rule), constants.ResourceMatchingRule)
}

// PatchMatchingRule changes the weight and/or active flag of a matching rule.
func (h *MatchingRulesHandler) PatchMatchingRule(w http.ResponseWriter, r *http.Request, ruleId string) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}
	var update model.MatchingRuleUpdateRequest
	if err := utils.DecodeJSONBody(r, &update, constants.ResourceMatchingRule); err != nil {
		utils.HandleError(w, err)
		return
	}
	rule, err := h.service.SetRule(r.Context(), ruleId, update)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   constants.SystemActor,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      ruleId,
		TargetType:    log.TargetTypeMatchingRule,
		ActionID:      log.ActionUpdateMatchingRule,
		TraceID:       cnxcontext.TraceID(r.Context()),
		Data: map[string]interface{}{
			"rule_key":  rule.RuleKey,
			"weight":    rule.Weight,
			"is_active": rule.IsActive,
		},
	})
	utils.RespondJSON(w, http.StatusOK, toResponse(*rule), constants.ResourceMatchingRule)
}

func toResponse(rule model.MatchingRule) model.MatchingRuleAPIResponse {
	return model.MatchingRuleAPIResponse{
		RuleId:      rule.RuleId,
		RuleKey:     rule.RuleKey,
		Label:       rule.Label,
		Description: rule.Description,
		Weight:      rule.Weight,
		IsActive:    rule.IsActive,
		UpdatedAt:   rule.UpdatedAt.Format(time.RFC3339),
	}
}
