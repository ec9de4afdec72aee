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

package service

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/store"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

// SignalRegistry reports whether a rule key is bound to a scoring signal.
type SignalRegistry interface {
	Has(key string) bool
}

type MatchingRuleServiceInterface interface {
	ListRules(ctx context.Context) ([]model.MatchingRule, error)
	GetRule(ctx context.Context, ruleId string) (*model.MatchingRule, error)
	SetRule(ctx context.Context, ruleId string, update model.MatchingRuleUpdateRequest) (*model.MatchingRule, error)
	SeedDefaultRules(ctx context.Context) (int, error)
	ValidateRules(ctx context.Context, registry SignalRegistry) error
}

// MatchingRuleService is the default implementation of MatchingRuleServiceInterface.
type MatchingRuleService struct {
	store store.MatchingRuleStoreInterface
	now   func() time.Time
}

// GetMatchingRuleService returns a service backed by the SQL store.
func GetMatchingRuleService() MatchingRuleServiceInterface {
	return NewMatchingRuleService(store.NewMatchingRuleStore(), time.Now)
}

func NewMatchingRuleService(ruleStore store.MatchingRuleStoreInterface, now func() time.Time) *MatchingRuleService {
	return &MatchingRuleService{
		store: ruleStore,
		now:   now,
	}
}

// ListRules fetches every rule, active or not.
func (s *MatchingRuleService) ListRules(ctx context.Context) ([]model.MatchingRule, error) {

	return s.store.GetMatchingRules(ctx)
}

// GetRule fetches one rule and fails with 404 for an unknown id.
func (s *MatchingRuleService) GetRule(ctx context.Context, ruleId string) (*model.MatchingRule, error) {

	rule, err := s.store.GetMatchingRule(ctx, ruleId)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFound(ruleId)
	}
	return rule, nil
}

// SetRule updates the weight and/or active flag. Weights are stored as given.
func (s *MatchingRuleService) SetRule(ctx context.Context, ruleId string,
	update model.MatchingRuleUpdateRequest) (*model.MatchingRule, error) {

	if update.Weight == nil && update.IsActive == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_MATCHING_RULE_UPDATE.Code,
			Message:     errors2.INVALID_MATCHING_RULE_UPDATE.Message,
			Description: "At least one of 'weight' or 'is_active' must be provided.",
		}, http.StatusBadRequest)
	}
	if update.Weight != nil && (math.IsNaN(*update.Weight) || math.IsInf(*update.Weight, 0)) {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_MATCHING_RULE_UPDATE.Code,
			Message:     errors2.INVALID_MATCHING_RULE_UPDATE.Message,
			Description: "Weight must be a finite number.",
		}, http.StatusBadRequest)
	}

	rule, err := s.store.UpdateMatchingRule(ctx, ruleId, update.Weight, update.IsActive, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFound(ruleId)
	}
	return rule, nil
}

// SeedDefaultRules inserts default rules whose keys are missing. Existing rules are never touched.
func (s *MatchingRuleService) SeedDefaultRules(ctx context.Context) (int, error) {

	logger := log.GetLogger()
	now := s.now().UTC()
	seeded := 0
	for _, rule := range model.DefaultRules() {
		rule.RuleId = uuid.New().String()
		rule.CreatedAt = now
		rule.UpdatedAt = now
		inserted, err := s.store.InsertMatchingRuleIfMissing(ctx, rule)
		if err != nil {
			return seeded, err
		}
		if inserted {
			seeded++
			logger.Info(fmt.Sprintf("Seeded default matching rule: %s", rule.RuleKey))
		}
	}
	if seeded > 0 {
		logger.Audit(log.AuditEvent{
			InitiatorID:   "bootstrap",
			InitiatorType: log.InitiatorTypeSystem,
			TargetID:      "matching_rules",
			TargetType:    log.TargetTypeMatchingRule,
			ActionID:      log.ActionSeedMatchingRules,
			Data:          map[string]int{"seeded": seeded},
		})
	}
	return seeded, nil
}

// ValidateRules fails when a persisted rule is bound to a key the registry does not know.
func (s *MatchingRuleService) ValidateRules(ctx context.Context, registry SignalRegistry) error {

	rules, err := s.store.GetMatchingRules(ctx)
	if err != nil {
		return err
	}
	var unknown []string
	for _, rule := range rules {
		if !registry.Has(rule.RuleKey) {
			unknown = append(unknown, rule.RuleKey)
		}
	}
	if len(unknown) > 0 {
		errorMsg := fmt.Sprintf("Matching rules bound to unknown signals: %s", strings.Join(unknown, ", "))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNKNOWN_SIGNAL.Code,
			Message:     errors2.UNKNOWN_SIGNAL.Message,
			Description: errorMsg,
		}, fmt.Errorf("%s", errorMsg))
	}
	return nil
}

func ruleNotFound(ruleId string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.MATCHING_RULE_NOT_FOUND.Code,
		Message:     errors2.MATCHING_RULE_NOT_FOUND.Message,
		Description: fmt.Sprintf("No matching rule found with id: %s", ruleId),
	}, http.StatusNotFound)
}
