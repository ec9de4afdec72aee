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
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/store"
	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	introductionservice "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/service"
	introductionstore "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/store"
	rulemodel "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	ruleservice "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/service"
	membermodel "github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/scoring"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/test/setup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type stubRules struct {
	ruleservice.MatchingRuleServiceInterface
	rules []rulemodel.MatchingRule
}

func (s *stubRules) ListRules(ctx context.Context) ([]rulemodel.MatchingRule, error) {
	return s.rules, nil
}

type stubMembers struct {
	members []membermodel.Member
	onList  func()
}

func (s *stubMembers) ListActiveMembers(ctx context.Context) ([]membermodel.Member, error) {
	if s.onList != nil {
		s.onList()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.members, nil
}

func (s *stubMembers) GetMember(ctx context.Context, memberId string) (*membermodel.Member, error) {
	for _, member := range s.members {
		if member.MemberId == memberId {
			return &member, nil
		}
	}
	return nil, fmt.Errorf("member %s not found", memberId)
}

func (s *stubMembers) UpsertMember(ctx context.Context, member membermodel.Member) error {
	return nil
}

type countingNotifier struct {
	mu         sync.Mutex
	recipients []string
}

func (n *countingNotifier) NotifyIntroduction(introduction intromodel.Introduction, memberId string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recipients = append(n.recipients, memberId)
}

func (n *countingNotifier) NotifyTransition(introduction intromodel.Introduction, event intromodel.TransitionEvent) {
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc      *CycleService
	clock    *fakeClock
	members  *stubMembers
	notifier *countingNotifier
	store    introductionstore.IntroductionStoreInterface
}

func activeMembers(n int) []membermodel.Member {
	members := make([]membermodel.Member, 0, n)
	for i := 1; i <= n; i++ {
		members = append(members, membermodel.Member{
			MemberId: fmt.Sprintf("m%d", i),
			Status:   constants.MemberStatusActive,
			JoinDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return members
}

func newFixture(t *testing.T, memberCount int) *fixture {
	t.Helper()
	setup.SetupSqliteTestDB(t)

	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	members := &stubMembers{members: activeMembers(memberCount)}
	notifier := &countingNotifier{}
	introductionStore := introductionstore.NewIntroductionStore()
	rules := &stubRules{rules: []rulemodel.MatchingRule{
		{RuleId: "r1", RuleKey: rulemodel.KeyNeverMet, Label: "never_met", Weight: 5, IsActive: true},
	}}

	svc := NewCycleService(Dependencies{
		CycleStore:        store.NewCycleStore(),
		IntroductionStore: introductionStore,
		Introductions: introductionservice.NewIntroductionService(introductionStore, members, notifier,
			clock.Now),
		Rules:    rules,
		Members:  members,
		Notifier: notifier,
		Engine:   scoring.NewEngine(scoring.NewRegistry(), scoring.Settings{}),
	}, Settings{Cooldown: 24 * time.Hour, WorkerPoolSize: 3}, clock.Now)

	return &fixture{svc: svc, clock: clock, members: members, notifier: notifier, store: introductionStore}
}

func TestRunCycle_SixMembersYieldPerfectMatching(t *testing.T) {
	f := newFixture(t, 6)
	ctx := context.Background()

	result, err := f.svc.RunCycle(ctx, true)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 3, result.Generated)

	introductions := map[string]int{}
	for _, member := range f.members.members {
		list, err := f.store.ListIntroductionsForMember(ctx, member.MemberId, 10)
		require.NoError(t, err)
		require.Len(t, list, 1, "member %s", member.MemberId)
		assert.Equal(t, intromodel.StatusSuggested, list[0].Status)
		assert.Equal(t, intromodel.SourceAuto, list[0].Source)
		introductions[list[0].IntroductionId]++
	}
	assert.Len(t, introductions, 3)

	stats, err := f.svc.GetCycleStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.GeneratedTotal)
	assert.Equal(t, int64(3), stats.PendingTotal)
	assert.Equal(t, int64(0), stats.AcceptedTotal)
	assert.Len(t, f.notifier.recipients, 6)
}

func TestRunCycle_CooldownSkipsUntilElapsed(t *testing.T) {
	f := newFixture(t, 6)
	ctx := context.Background()

	first, err := f.svc.RunCycle(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Generated)
	firstRun, err := f.svc.GetLastCycle(ctx)
	require.NoError(t, err)
	require.NotNil(t, firstRun.LastRunAt)

	f.clock.Advance(time.Hour)
	second, err := f.svc.RunCycle(ctx, false)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, constants.SkipReasonCooldown, second.Reason)

	afterSkip, err := f.svc.GetLastCycle(ctx)
	require.NoError(t, err)
	assert.True(t, firstRun.LastRunAt.Equal(*afterSkip.LastRunAt))

	f.clock.Advance(24 * time.Hour)
	third, err := f.svc.RunCycle(ctx, false)
	require.NoError(t, err)
	assert.False(t, third.Skipped)
	// The three live pairs are excluded, leaving (m1,m3) and (m2,m4).
	assert.Equal(t, 2, third.Generated)
}

func TestRunCycle_ForceIgnoresCooldown(t *testing.T) {
	f := newFixture(t, 6)
	ctx := context.Background()

	_, err := f.svc.RunCycle(ctx, true)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	again, err := f.svc.RunCycle(ctx, true)
	require.NoError(t, err)
	assert.False(t, again.Skipped)

	last, err := f.svc.GetLastCycle(ctx)
	require.NoError(t, err)
	require.NotNil(t, last.LastRunAt)
	assert.True(t, f.clock.Now().Equal(*last.LastRunAt))
}

func TestRunCycle_InsufficientMembersReleasesClaim(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	result, err := f.svc.RunCycle(ctx, false)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, constants.SkipReasonInsufficientMembers, result.Reason)

	last, err := f.svc.GetLastCycle(ctx)
	require.NoError(t, err)
	assert.Nil(t, last.LastRunAt)
}

func TestRunCycle_CancelledCycleRestoresPreviousRun(t *testing.T) {
	f := newFixture(t, 6)

	_, err := f.svc.RunCycle(context.Background(), true)
	require.NoError(t, err)
	previous, err := f.svc.GetLastCycle(context.Background())
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	f.members.onList = cancel
	_, err = f.svc.RunCycle(ctx, true)
	require.Error(t, err)

	f.members.onList = nil
	last, err := f.svc.GetLastCycle(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last.LastRunAt)
	assert.True(t, previous.LastRunAt.Equal(*last.LastRunAt))

	stats, err := f.svc.GetCycleStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.GeneratedTotal)
}

type cancellingIntroductions struct {
	introductionservice.IntroductionServiceInterface
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingIntroductions) SuggestIntroduction(ctx context.Context,
	pair intromodel.Pair) (*intromodel.Introduction, error) {

	introduction, err := c.IntroductionServiceInterface.SuggestIntroduction(ctx, pair)
	c.calls++
	if c.calls == 1 {
		c.cancel()
	}
	return introduction, err
}

func TestRunCycle_CancelDuringPersistenceFinishesCycle(t *testing.T) {
	f := newFixture(t, 6)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.svc.deps.Introductions = &cancellingIntroductions{
		IntroductionServiceInterface: f.svc.deps.Introductions,
		cancel:                       cancel,
	}

	result, err := f.svc.RunCycle(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Generated)

	last, err := f.svc.GetLastCycle(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last.LastRunAt)
	assert.True(t, f.clock.Now().Equal(*last.LastRunAt))

	persisted := map[string]intromodel.Introduction{}
	for _, member := range f.members.members {
		list, err := f.store.ListIntroductionsForMember(context.Background(), member.MemberId, 10)
		require.NoError(t, err)
		for _, introduction := range list {
			assert.Equal(t, intromodel.SourceAuto, introduction.Source)
			persisted[introduction.IntroductionId] = introduction
		}
	}
	assert.Len(t, persisted, 3)

	notified := map[string]int{}
	for _, recipient := range f.notifier.recipients {
		notified[recipient]++
	}
	assert.Len(t, f.notifier.recipients, 2*len(persisted))
	for _, introduction := range persisted {
		assert.Equal(t, 1, notified[introduction.MemberLowId], introduction.MemberLowId)
		assert.Equal(t, 1, notified[introduction.MemberHighId], introduction.MemberHighId)
	}
}

func TestReleaseCycle_OverlappingAbortsFallBackToCompletedRun(t *testing.T) {
	f := newFixture(t, 6)
	ctx := context.Background()

	_, err := f.svc.RunCycle(ctx, true)
	require.NoError(t, err)
	completed, err := f.svc.GetLastCycle(ctx)
	require.NoError(t, err)
	require.NotNil(t, completed.LastRunAt)

	cycles := f.svc.deps.CycleStore
	first := f.clock.Now().Add(time.Minute).UTC()
	second := first.Add(time.Minute)
	claimed, err := cycles.ClaimCycle(ctx, first, true, 24*time.Hour)
	require.NoError(t, err)
	require.True(t, claimed)
	claimed, err = cycles.ClaimCycle(ctx, second, true, 24*time.Hour)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, cycles.ReleaseCycle(ctx, second))
	require.NoError(t, cycles.ReleaseCycle(ctx, first))

	last, err := f.svc.GetLastCycle(ctx)
	require.NoError(t, err)
	require.NotNil(t, last.LastRunAt)
	assert.True(t, completed.LastRunAt.Equal(*last.LastRunAt))
}

func TestRunCycle_NoActiveRulesCreatesNothing(t *testing.T) {
	f := newFixture(t, 4)
	f.svc.deps.Rules = &stubRules{rules: []rulemodel.MatchingRule{
		{RuleId: "r1", RuleKey: rulemodel.KeyNeverMet, Weight: 5, IsActive: false},
	}}

	result, err := f.svc.RunCycle(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 0, result.Generated)
}

func TestRunCycle_SkipsPairsWithLiveManualRequest(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	_, err := f.svc.deps.Introductions.RequestIntroduction(ctx, "m1", "m2")
	require.NoError(t, err)

	result, err := f.svc.RunCycle(ctx, true)
	require.NoError(t, err)
	// (m1,m2) is live, so greedy picks (m1,m3) and (m2,m4).
	assert.Equal(t, 2, result.Generated)
}

func TestDryRun_DoesNotPersistOrClaim(t *testing.T) {
	f := newFixture(t, 6)
	ctx := context.Background()

	preview, err := f.svc.DryRun(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, preview.Members)
	require.Len(t, preview.Candidates, 2)
	assert.Equal(t, "m1", preview.Candidates[0].MemberLowId)
	assert.Equal(t, "m2", preview.Candidates[0].MemberHighId)
	assert.Equal(t, 5.0, preview.Candidates[0].Score)

	last, err := f.svc.GetLastCycle(ctx)
	require.NoError(t, err)
	assert.Nil(t, last.LastRunAt)
	stats, err := f.svc.GetCycleStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.GeneratedTotal)
	assert.Empty(t, f.notifier.recipients)
}

func TestGetCycleStats_CountsOutcomes(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	_, err := f.svc.RunCycle(ctx, true)
	require.NoError(t, err)
	list, err := f.store.ListIntroductionsForMember(ctx, "m1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = f.svc.deps.Introductions.Accept(ctx, list[0].IntroductionId, "m1")
	require.NoError(t, err)
	list, err = f.store.ListIntroductionsForMember(ctx, "m3", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = f.svc.deps.Introductions.Decline(ctx, list[0].IntroductionId, "m3")
	require.NoError(t, err)

	stats, err := f.svc.GetCycleStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.GeneratedTotal)
	assert.Equal(t, int64(0), stats.PendingTotal)
	assert.Equal(t, int64(1), stats.AcceptedTotal)
	assert.Equal(t, int64(1), stats.DeclinedTotal)
}
