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
	"sort"
	"strings"
	"sync"
	"time"

	membermodel "github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	rulemodel "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
)

// PairHistory summarizes the non-live introductions between two members.
type PairHistory struct {
	Met           bool
	LastMeetingAt *time.Time
}

// Settings are the time windows used by the time based signals.
type Settings struct {
	NewMemberWindow time.Duration
	RecencyWindow   time.Duration
}

// SignalInput is everything a signal may look at. Signals must not retain or modify it.
type SignalInput struct {
	A        *membermodel.Member
	B        *membermodel.Member
	History  PairHistory
	At       time.Time
	Settings Settings
}

// Signal is a pure, symmetric function of a pair, normalized to [0,1] or [-1,1].
type Signal func(in SignalInput) (float64, error)

// Registry maps rule keys to signals.
type Registry struct {
	mu      sync.RWMutex
	signals map[string]Signal
}

// NewRegistry returns a registry holding the built-in signals.
func NewRegistry() *Registry {
	registry := &Registry{signals: map[string]Signal{}}
	registry.Register(rulemodel.KeyNeverMet, NeverMet)
	registry.Register(rulemodel.KeyExpertiseComplementarity, ExpertiseComplementarity)
	registry.Register(rulemodel.KeyLookingForAlignment, LookingForAlignment)
	registry.Register(rulemodel.KeyNewMemberBoost, NewMemberBoost)
	registry.Register(rulemodel.KeyIndustryDiversity, IndustryDiversity)
	registry.Register(rulemodel.KeyMeetingRecencyDecay, MeetingRecencyDecay)
	return registry
}

// Register binds key to signal, replacing any previous binding.
func (r *Registry) Register(key string, signal Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals[key] = signal
}

func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

func (r *Registry) Get(key string) (Signal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	signal, ok := r.signals[key]
	return signal, ok
}

// Keys lists the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.signals))
	for key := range r.signals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// NeverMet is 1 unless the pair already had a completed introduction.
func NeverMet(in SignalInput) (float64, error) {
	if in.History.Met {
		return 0, nil
	}
	return 1, nil
}

// ExpertiseComplementarity averages how much of each member's looking_for the other's expertise covers.
func ExpertiseComplementarity(in SignalInput) (float64, error) {
	return (coverage(in.A.LookingFor, in.B.Expertise) + coverage(in.B.LookingFor, in.A.Expertise)) / 2, nil
}

// LookingForAlignment averages how much of each member's looking_for the other can help with.
func LookingForAlignment(in SignalInput) (float64, error) {
	return (coverage(in.A.LookingFor, in.B.CanHelpWith) + coverage(in.B.LookingFor, in.A.CanHelpWith)) / 2, nil
}

// NewMemberBoost is 1 for a member who joined just now and fades to 0 over the new member window.
func NewMemberBoost(in SignalInput) (float64, error) {
	window := in.Settings.NewMemberWindow
	if window <= 0 {
		return 0, nil
	}
	boost := func(m *membermodel.Member) float64 {
		if m.JoinDate.IsZero() {
			return 0
		}
		return clamp(1-float64(in.At.Sub(m.JoinDate))/float64(window), 0, 1)
	}
	a, b := boost(in.A), boost(in.B)
	if a > b {
		return a, nil
	}
	return b, nil
}

// IndustryDiversity is 1 - jaccard(industries). Unknown industries score 0.
func IndustryDiversity(in SignalInput) (float64, error) {
	a, b := toSet(in.A.Industry), toSet(in.B.Industry)
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}
	shared := 0
	for value := range a {
		if _, ok := b[value]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return 1 - float64(shared)/float64(union), nil
}

// MeetingRecencyDecay is -1 right after a meeting and rises to 0 at the end of the recency window.
func MeetingRecencyDecay(in SignalInput) (float64, error) {
	window := in.Settings.RecencyWindow
	if in.History.LastMeetingAt == nil || window <= 0 {
		return 0, nil
	}
	since := in.At.Sub(*in.History.LastMeetingAt)
	if since < 0 {
		since = 0
	}
	if since >= window {
		return 0, nil
	}
	return -(1 - float64(since)/float64(window)), nil
}

// coverage is the share of need found in have. An empty need covers nothing.
func coverage(need, have []string) float64 {
	needSet := toSet(need)
	if len(needSet) == 0 {
		return 0
	}
	haveSet := toSet(have)
	hits := 0
	for value := range needSet {
		if _, ok := haveSet[value]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(needSet))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
