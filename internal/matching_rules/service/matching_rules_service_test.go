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
	"math"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

// MockMatchingRuleStore implements store.MatchingRuleStoreInterface for testing
type MockMatchingRuleStore struct {
	mock.Mock
}

func (m *MockMatchingRuleStore) GetMatchingRules(ctx context.Context) ([]model.MatchingRule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.MatchingRule), args.Error(1)
}

func (m *MockMatchingRuleStore) GetMatchingRule(ctx context.Context, ruleId string) (*model.MatchingRule, error) {
	args := m.Called(ctx, ruleId)
	return args.Get(0).(*model.MatchingRule), args.Error(1)
}

func (m *MockMatchingRuleStore) UpdateMatchingRule(ctx context.Context, ruleId string, weight *float64,
	isActive *bool, updatedAt time.Time) (*model.MatchingRule, error) {
	args := m.Called(ctx, ruleId, weight, isActive, updatedAt)
	return args.Get(0).(*model.MatchingRule), args.Error(1)
}

func (m *MockMatchingRuleStore) InsertMatchingRuleIfMissing(ctx context.Context, rule model.MatchingRule) (bool, error) {
	args := m.Called(ctx, rule)
	return args.Bool(0), args.Error(1)
}

type fakeRegistry map[string]bool

func (f fakeRegistry) Has(key string) bool { return f[key] }

var fixedNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func newService(store *MockMatchingRuleStore) *MatchingRuleService {
	return NewMatchingRuleService(store, func() time.Time { return fixedNow })
}

func TestSetRule_UpdatesWeightAsGiven(t *testing.T) {
	store := new(MockMatchingRuleStore)
	svc := newService(store)
	weight := -42.5

	store.On("UpdateMatchingRule", mock.Anything, "r1", &weight, (*bool)(nil), fixedNow).
		Return(&model.MatchingRule{RuleId: "r1", RuleKey: model.KeyNeverMet, Weight: weight, IsActive: true}, nil)

	rule, err := svc.SetRule(context.Background(), "r1", model.MatchingRuleUpdateRequest{Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, -42.5, rule.Weight)
	store.AssertExpectations(t)
}

func TestSetRule_UnknownIdIsNotFound(t *testing.T) {
	store := new(MockMatchingRuleStore)
	svc := newService(store)
	active := false

	store.On("UpdateMatchingRule", mock.Anything, "missing", (*float64)(nil), &active, fixedNow).
		Return((*model.MatchingRule)(nil), nil)

	_, err := svc.SetRule(context.Background(), "missing", model.MatchingRuleUpdateRequest{IsActive: &active})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSetRule_RejectsEmptyAndNonFiniteUpdates(t *testing.T) {
	store := new(MockMatchingRuleStore)
	svc := newService(store)

	_, err := svc.SetRule(context.Background(), "r1", model.MatchingRuleUpdateRequest{})
	require.Error(t, err)
	assert.True(t, errors.IsClientErrorWithStatus(err, http.StatusBadRequest))

	nan := math.NaN()
	_, err = svc.SetRule(context.Background(), "r1", model.MatchingRuleUpdateRequest{Weight: &nan})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	store.AssertNotCalled(t, "UpdateMatchingRule")
}

func TestGetRule_NotFound(t *testing.T) {
	store := new(MockMatchingRuleStore)
	svc := newService(store)
	store.On("GetMatchingRule", mock.Anything, "nope").Return((*model.MatchingRule)(nil), nil)

	_, err := svc.GetRule(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestSeedDefaultRules_CountsOnlyInsertedKeys(t *testing.T) {
	store := new(MockMatchingRuleStore)
	svc := newService(store)

	store.On("InsertMatchingRuleIfMissing", mock.Anything, mock.MatchedBy(func(r model.MatchingRule) bool {
		return r.RuleKey == model.KeyNeverMet
	})).Return(false, nil)
	store.On("InsertMatchingRuleIfMissing", mock.Anything, mock.MatchedBy(func(r model.MatchingRule) bool {
		return r.RuleKey != model.KeyNeverMet && r.RuleId != "" && r.CreatedAt.Equal(fixedNow)
	})).Return(true, nil)

	seeded, err := svc.SeedDefaultRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultRules())-1, seeded)
}

func TestValidateRules_FailsOnUnknownKey(t *testing.T) {
	store := new(MockMatchingRuleStore)
	svc := newService(store)
	store.On("GetMatchingRules", mock.Anything).Return([]model.MatchingRule{
		{RuleKey: model.KeyNeverMet},
		{RuleKey: "shoe_size"},
	}, nil)

	err := svc.ValidateRules(context.Background(), fakeRegistry{model.KeyNeverMet: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown signal")

	var serverErr *errors.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Contains(t, serverErr.Description, "shoe_size")
}

func TestValidateRules_PassesForKnownKeys(t *testing.T) {
	store := new(MockMatchingRuleStore)
	svc := newService(store)
	store.On("GetMatchingRules", mock.Anything).Return([]model.MatchingRule{{RuleKey: model.KeyNeverMet}}, nil)

	assert.NoError(t, svc.ValidateRules(context.Background(), fakeRegistry{model.KeyNeverMet: true}))
}
