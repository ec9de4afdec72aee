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

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/scripts"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

// MatchingRuleStoreInterface defines persistence for matching rules.
type MatchingRuleStoreInterface interface {
	GetMatchingRules(ctx context.Context) ([]model.MatchingRule, error)
	// GetMatchingRule returns nil when the rule does not exist.
	GetMatchingRule(ctx context.Context, ruleId string) (*model.MatchingRule, error)
	// UpdateMatchingRule applies the non-nil fields and returns nil when the rule does not exist.
	UpdateMatchingRule(ctx context.Context, ruleId string, weight *float64, isActive *bool,
		updatedAt time.Time) (*model.MatchingRule, error)
	// InsertMatchingRuleIfMissing inserts rule unless its key is already registered.
	InsertMatchingRuleIfMissing(ctx context.Context, rule model.MatchingRule) (bool, error)
}

// MatchingRuleStore is the SQL implementation of MatchingRuleStoreInterface.
type MatchingRuleStore struct{}

func NewMatchingRuleStore() MatchingRuleStoreInterface {
	return &MatchingRuleStore{}
}

// GetMatchingRules fetches all matching rules ordered by key.
func (s *MatchingRuleStore) GetMatchingRules(ctx context.Context) ([]model.MatchingRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching matching rules"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetMatchingRules[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQueryContext(ctx, query)
	if err != nil {
		errorMsg := "Failed in fetching matching rules"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MATCHING_RULES.Code,
			Message:     errors2.FETCH_MATCHING_RULES.Message,
			Description: errorMsg,
		}, err)
	}

	rules := make([]model.MatchingRule, 0, len(results))
	for _, row := range results {
		rules = append(rules, mapRowToRule(row))
	}
	return rules, nil
}

// GetMatchingRule fetches a single matching rule by id.
func (s *MatchingRuleStore) GetMatchingRule(ctx context.Context, ruleId string) (*model.MatchingRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching matching rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetMatchingRule[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQueryContext(ctx, query, ruleId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching matching rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MATCHING_RULES.Code,
			Message:     errors2.FETCH_MATCHING_RULES.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	rule := mapRowToRule(results[0])
	return &rule, nil
}

// UpdateMatchingRule updates weight and/or the active flag in one statement.
func (s *MatchingRuleStore) UpdateMatchingRule(ctx context.Context, ruleId string, weight *float64, isActive *bool,
	updatedAt time.Time) (*model.MatchingRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for updating matching rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	var weightArg, activeArg interface{}
	if weight != nil {
		weightArg = *weight
	}
	if isActive != nil {
		activeArg = *isActive
	}

	query := scripts.UpdateMatchingRule[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQueryContext(ctx, query, ruleId, weightArg, activeArg, updatedAt.UnixMilli())
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in updating matching rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_MATCHING_RULE.Code,
			Message:     errors2.UPDATE_MATCHING_RULE.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	rule := mapRowToRule(results[0])
	logger.Info(fmt.Sprintf("Matching rule: %s updated successfully", rule.RuleKey))
	return &rule, nil
}

// InsertMatchingRuleIfMissing inserts the rule unless a rule with the same key exists.
func (s *MatchingRuleStore) InsertMatchingRuleIfMissing(ctx context.Context, rule model.MatchingRule) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for seeding matching rule: %s", rule.RuleKey)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.InsertMatchingRuleIfMissing[provider.NewDBProvider().GetDBType()]
	inserted, err := dbClient.Execute(ctx, query, rule.RuleId, rule.RuleKey, rule.Label, rule.Description,
		rule.Weight, rule.IsActive, rule.CreatedAt.UnixMilli(), rule.UpdatedAt.UnixMilli())
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in seeding matching rule: %s", rule.RuleKey)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.SEED_MATCHING_RULES.Code,
			Message:     errors2.SEED_MATCHING_RULES.Message,
			Description: errorMsg,
		}, err)
	}
	return inserted > 0, nil
}

func mapRowToRule(row map[string]interface{}) model.MatchingRule {
	return model.MatchingRule{
		RuleId:      utils.AsString(row["rule_id"]),
		RuleKey:     utils.AsString(row["rule_key"]),
		Label:       utils.AsString(row["label"]),
		Description: utils.AsString(row["description"]),
		Weight:      utils.AsFloat64(row["weight"]),
		IsActive:    utils.AsBool(row["is_active"]),
		CreatedAt:   utils.AsTime(row["created_at"]),
		UpdatedAt:   utils.AsTime(row["updated_at"]),
	}
}
