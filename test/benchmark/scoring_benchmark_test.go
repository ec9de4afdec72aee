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

package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	membermodel "github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	rulemodel "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/scoring"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
)

var (
	skills     = []string{"go", "kafka", "design", "sales", "finance", "ml", "ops", "legal"}
	industries = []string{"fintech", "health", "retail", "energy", "media"}
)

func buildMembers(count int, at time.Time) []membermodel.Member {
	members := make([]membermodel.Member, count)
	for i := range members {
		members[i] = membermodel.Member{
			MemberId:    fmt.Sprintf("m%05d", i),
			Status:      constants.MemberStatusActive,
			JoinDate:    at.AddDate(0, 0, -(i % 400)),
			Expertise:   []string{skills[i%len(skills)], skills[(i+3)%len(skills)]},
			LookingFor:  []string{skills[(i+1)%len(skills)]},
			CanHelpWith: []string{skills[(i+5)%len(skills)]},
			Industry:    []string{industries[i%len(industries)]},
		}
	}
	return members
}

func defaultRules() []rulemodel.MatchingRule {
	rules := make([]rulemodel.MatchingRule, 0)
	for i, rule := range rulemodel.DefaultRules() {
		rule.RuleId = fmt.Sprintf("r%d", i)
		rules = append(rules, rule)
	}
	return rules
}

func benchmarkRank(b *testing.B, memberCount, workers int) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	engine := scoring.NewEngine(scoring.NewRegistry(), scoring.Settings{
		NewMemberWindow: 30 * 24 * time.Hour,
		RecencyWindow:   90 * 24 * time.Hour,
	})
	input := scoring.RankInput{
		Members:  buildMembers(memberCount, at),
		Rules:    defaultRules(),
		Excluded: map[intromodel.Pair]struct{}{},
		History:  map[intromodel.Pair]scoring.PairHistory{},
		At:       at,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		candidates, err := engine.Rank(context.Background(), input, workers)
		if err != nil {
			b.Fatal(err)
		}
		_ = scoring.SelectGreedy(candidates)
	}
}

func BenchmarkRank200Members1Worker(b *testing.B)  { benchmarkRank(b, 200, 1) }
func BenchmarkRank200Members8Workers(b *testing.B) { benchmarkRank(b, 200, 8) }
func BenchmarkRank1000Members8Workers(b *testing.B) {
	benchmarkRank(b, 1000, 8)
}
