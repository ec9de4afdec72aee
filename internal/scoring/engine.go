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
	"fmt"
	"math"
	"sort"
	"time"

	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	membermodel "github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	rulemodel "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"golang.org/x/sync/errgroup"
)

// Candidate is a scored, non-excluded pair.
type Candidate struct {
	Pair  intromodel.Pair `json:"pair"`
	Score float64         `json:"score"`
}

// RankInput is the snapshot a cycle scores against.
type RankInput struct {
	Members  []membermodel.Member
	Rules    []rulemodel.MatchingRule
	Excluded map[intromodel.Pair]struct{}
	History  map[intromodel.Pair]PairHistory
	At       time.Time
}

// Engine scores member pairs against weighted rules.
type Engine struct {
	registry *Registry
	settings Settings
}

func NewEngine(registry *Registry, settings Settings) *Engine {
	return &Engine{
		registry: registry,
		settings: settings,
	}
}

// Score sums weight * signal over the active rules. A failing signal contributes zero.
func (e *Engine) Score(a, b *membermodel.Member, rules []rulemodel.MatchingRule, history PairHistory,
	at time.Time) float64 {

	input := SignalInput{A: a, B: b, History: history, At: at, Settings: e.settings}
	total := 0.0
	for _, rule := range rules {
		if !rule.IsActive || rule.Weight == 0 {
			continue
		}
		value, err := e.evaluate(rule.RuleKey, input)
		if err != nil {
			log.GetLogger().Warn("Scoring signal failed, counting it as zero",
				log.String("rule_key", rule.RuleKey),
				log.String("member_a", a.MemberId),
				log.String("member_b", b.MemberId),
				log.Error(err))
			continue
		}
		total += value * rule.Weight
	}
	return total
}

func (e *Engine) evaluate(key string, input SignalInput) (value float64, err error) {
	signal, ok := e.registry.Get(key)
	if !ok {
		return 0, fmt.Errorf("no signal registered for key %s", key)
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			value, err = 0, fmt.Errorf("signal panicked: %v", recovered)
		}
	}()
	value, err = signal(input)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("signal returned non-finite value %v", value)
	}
	return value, nil
}

// Rank scores every active, non-excluded pair on up to workers goroutines and returns the
// positive-scoring candidates sorted by score descending, then by pair. Each worker generates
// the pairs of the rows it owns, so the full cross product is never materialized.
func (e *Engine) Rank(ctx context.Context, in RankInput, workers int) ([]Candidate, error) {

	members := make([]membermodel.Member, 0, len(in.Members))
	for _, member := range in.Members {
		if member.IsActive() {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].MemberId < members[j].MemberId })

	rules := activeRules(in.Rules)
	if len(members) < 2 || len(rules) == 0 {
		return []Candidate{}, nil
	}
	if workers < 1 {
		workers = 1
	}

	rows := make(chan int)
	results := make([][]Candidate, workers)
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(rows)
		for i := 0; i < len(members)-1; i++ {
			select {
			case rows <- i:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		group.Go(func() error {
			var local []Candidate
			for i := range rows {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				a := &members[i]
				for j := i + 1; j < len(members); j++ {
					b := &members[j]
					if a.MemberId == b.MemberId {
						continue
					}
					pair := intromodel.Pair{Low: a.MemberId, High: b.MemberId}
					if _, excluded := in.Excluded[pair]; excluded {
						continue
					}
					score := e.Score(a, b, rules, in.History[pair], in.At)
					if score > 0 {
						local = append(local, Candidate{Pair: pair, Score: score})
					}
				}
			}
			results[w] = local
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	// A cancelled parent may still let every worker drain without seeing it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, local := range results {
		candidates = append(candidates, local...)
	}
	SortCandidates(candidates)
	if candidates == nil {
		candidates = []Candidate{}
	}
	return candidates, nil
}

// SortCandidates orders by score descending and breaks ties by (low, high).
func SortCandidates(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Pair.Low != candidates[j].Pair.Low {
			return candidates[i].Pair.Low < candidates[j].Pair.Low
		}
		return candidates[i].Pair.High < candidates[j].Pair.High
	})
}

// SelectGreedy walks sorted candidates and keeps a pair only when neither member was picked already.
func SelectGreedy(candidates []Candidate) []Candidate {
	used := make(map[string]struct{})
	selected := make([]Candidate, 0)
	for _, candidate := range candidates {
		if _, taken := used[candidate.Pair.Low]; taken {
			continue
		}
		if _, taken := used[candidate.Pair.High]; taken {
			continue
		}
		used[candidate.Pair.Low] = struct{}{}
		used[candidate.Pair.High] = struct{}{}
		selected = append(selected, candidate)
	}
	return selected
}

func activeRules(rules []rulemodel.MatchingRule) []rulemodel.MatchingRule {
	active := make([]rulemodel.MatchingRule, 0, len(rules))
	for _, rule := range rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active
}
