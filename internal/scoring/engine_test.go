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

package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync/atomic"
	"testing"
	"time"

	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	membermodel "github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	rulemodel "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

var (
	at       = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	settings = Settings{NewMemberWindow: 90 * 24 * time.Hour, RecencyWindow: 180 * 24 * time.Hour}
)

func member(id string) membermodel.Member {
	return membermodel.Member{MemberId: id, Status: "active", JoinDate: at.AddDate(-2, 0, 0)}
}

func rule(key string, weight float64) rulemodel.MatchingRule {
	return rulemodel.MatchingRule{RuleId: key, RuleKey: key, Weight: weight, IsActive: true}
}

func TestScore_IsSymmetricForBuiltInSignals(t *testing.T) {
	engine := NewEngine(NewRegistry(), settings)
	var rules []rulemodel.MatchingRule
	for _, r := range rulemodel.DefaultRules() {
		rules = append(rules, rule(r.RuleKey, r.Weight))
	}
	lastMet := at.Add(-30 * 24 * time.Hour)

	a := membermodel.Member{
		MemberId: "a", Status: "active", JoinDate: at.Add(-10 * 24 * time.Hour),
		Expertise: []string{"Marketing", "sales"}, LookingFor: []string{"funding", "hiring"},
		CanHelpWith: []string{"branding"}, Industry: []string{"retail", "saas"},
	}
	b := membermodel.Member{
		MemberId: "b", Status: "active", JoinDate: at.Add(-400 * 24 * time.Hour),
		Expertise: []string{"funding"}, LookingFor: []string{"marketing", "branding", "legal"},
		CanHelpWith: []string{"hiring"}, Industry: []string{"saas"},
	}
	for _, history := range []PairHistory{{}, {Met: true, LastMeetingAt: &lastMet}} {
		ab := engine.Score(&a, &b, rules, history, at)
		ba := engine.Score(&b, &a, rules, history, at)
		assert.InDelta(t, ab, ba, 1e-12)
	}
}

func TestScore_SkipsInactiveRulesBeforeEvaluating(t *testing.T) {
	registry := NewRegistry()
	var calls int32
	registry.Register("counted", func(in SignalInput) (float64, error) {
		atomic.AddInt32(&calls, 1)
		return 1, nil
	})
	engine := NewEngine(registry, settings)
	inactive := rule("counted", 10)
	inactive.IsActive = false

	a, b := member("a"), member("b")
	score := engine.Score(&a, &b, []rulemodel.MatchingRule{inactive, rule(rulemodel.KeyNeverMet, 5)}, PairHistory{}, at)

	assert.Equal(t, 5.0, score)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestScore_FailingSignalsContributeZero(t *testing.T) {
	registry := NewRegistry()
	registry.Register("errors", func(in SignalInput) (float64, error) { return 0, errors.New("boom") })
	registry.Register("panics", func(in SignalInput) (float64, error) { panic("malformed rule") })
	registry.Register("nan", func(in SignalInput) (float64, error) { return math.NaN(), nil })
	engine := NewEngine(registry, settings)

	rules := []rulemodel.MatchingRule{
		rule("errors", 3), rule("panics", 3), rule("nan", 3), rule("unregistered", 3),
		rule(rulemodel.KeyNeverMet, 5),
	}
	a, b := member("a"), member("b")
	assert.Equal(t, 5.0, engine.Score(&a, &b, rules, PairHistory{}, at))
}

func TestScore_EmptyRuleSetIsZero(t *testing.T) {
	engine := NewEngine(NewRegistry(), settings)
	a, b := member("a"), member("b")
	assert.Equal(t, 0.0, engine.Score(&a, &b, nil, PairHistory{}, at))
}

func TestRank_ExcludesLivePairsAndInactiveMembers(t *testing.T) {
	engine := NewEngine(NewRegistry(), settings)
	inactive := member("m4")
	inactive.Status = "inactive"

	candidates, err := engine.Rank(context.Background(), RankInput{
		Members:  []membermodel.Member{member("m3"), member("m1"), member("m2"), inactive},
		Rules:    []rulemodel.MatchingRule{rule(rulemodel.KeyNeverMet, 5)},
		Excluded: map[intromodel.Pair]struct{}{intromodel.NewPair("m2", "m1"): {}},
		At:       at,
	}, 3)
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, intromodel.Pair{Low: "m1", High: "m3"}, candidates[0].Pair)
	assert.Equal(t, intromodel.Pair{Low: "m2", High: "m3"}, candidates[1].Pair)
}

func TestRank_DropsNonPositiveScoresAndSortsByScore(t *testing.T) {
	registry := NewRegistry()
	registry.Register("by_id", func(in SignalInput) (float64, error) {
		if in.A.MemberId == "m1" || in.B.MemberId == "m1" {
			return 1, nil
		}
		return 0.5, nil
	})
	engine := NewEngine(registry, settings)
	lastMet := at.Add(-24 * time.Hour)

	candidates, err := engine.Rank(context.Background(), RankInput{
		Members: []membermodel.Member{member("m1"), member("m2"), member("m3")},
		Rules: []rulemodel.MatchingRule{
			rule("by_id", 2), rule(rulemodel.KeyMeetingRecencyDecay, 10),
		},
		History: map[intromodel.Pair]PairHistory{
			{Low: "m2", High: "m3"}: {Met: true, LastMeetingAt: &lastMet},
		},
		At: at,
	}, 2)
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, intromodel.Pair{Low: "m1", High: "m2"}, candidates[0].Pair)
	assert.Equal(t, intromodel.Pair{Low: "m1", High: "m3"}, candidates[1].Pair)
	assert.Equal(t, 2.0, candidates[0].Score)
}

func TestRank_ReturnsContextError(t *testing.T) {
	engine := NewEngine(NewRegistry(), settings)
	var members []membermodel.Member
	for i := 0; i < 50; i++ {
		members = append(members, member(fmt.Sprintf("m%02d", i)))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Rank(ctx, RankInput{
		Members: members,
		Rules:   []rulemodel.MatchingRule{rule(rulemodel.KeyNeverMet, 5)},
		At:      at,
	}, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRank_SameResultForAnyPoolSize(t *testing.T) {
	engine := NewEngine(NewRegistry(), settings)
	var members []membermodel.Member
	for i := 0; i < 20; i++ {
		m := member(fmt.Sprintf("m%02d", i))
		m.Industry = []string{fmt.Sprintf("industry-%d", i%3)}
		members = append(members, m)
	}
	input := RankInput{
		Members: members,
		Rules: []rulemodel.MatchingRule{
			rule(rulemodel.KeyNeverMet, 5), rule(rulemodel.KeyIndustryDiversity, 1),
		},
		At: at,
	}

	single, err := engine.Rank(context.Background(), input, 1)
	require.NoError(t, err)
	pooled, err := engine.Rank(context.Background(), input, 8)
	require.NoError(t, err)
	assert.Equal(t, single, pooled)
	assert.Len(t, single, 190)
}

func TestSelectGreedy_PicksEachMemberAtMostOnce(t *testing.T) {
	candidates := []Candidate{
		{Pair: intromodel.Pair{Low: "a", High: "b"}, Score: 9},
		{Pair: intromodel.Pair{Low: "a", High: "c"}, Score: 8},
		{Pair: intromodel.Pair{Low: "c", High: "d"}, Score: 7},
		{Pair: intromodel.Pair{Low: "b", High: "d"}, Score: 6},
		{Pair: intromodel.Pair{Low: "e", High: "f"}, Score: 1},
	}
	selected := SelectGreedy(candidates)

	require.Len(t, selected, 3)
	assert.Equal(t, intromodel.Pair{Low: "a", High: "b"}, selected[0].Pair)
	assert.Equal(t, intromodel.Pair{Low: "c", High: "d"}, selected[1].Pair)
	assert.Equal(t, intromodel.Pair{Low: "e", High: "f"}, selected[2].Pair)
}
