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
	"sync"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/store"
	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	introductionservice "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/service"
	introductionstore "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/store"
	ruleprovider "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/provider"
	ruleservice "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/service"
	membermodel "github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	memberprovider "github.com/sr9691/circleblast-nexus-sub000/internal/member/provider"
	memberservice "github.com/sr9691/circleblast-nexus-sub000/internal/member/service"
	notificationprovider "github.com/sr9691/circleblast-nexus-sub000/internal/notification/provider"
	notificationservice "github.com/sr9691/circleblast-nexus-sub000/internal/notification/service"
	"github.com/sr9691/circleblast-nexus-sub000/internal/scoring"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	cnxcontext "github.com/sr9691/circleblast-nexus-sub000/internal/system/context"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

const (
	releaseTimeout = 10 * time.Second
	persistTimeout = 30 * time.Second
)

type CycleServiceInterface interface {
	RunCycle(ctx context.Context, force bool) (*model.CycleResult, error)
	DryRun(ctx context.Context, limit int) (*model.DryRunResponse, error)
	GetCycleStats(ctx context.Context) (*model.CycleStats, error)
	GetLastCycle(ctx context.Context) (*model.LastCycleResponse, error)
}

// Settings bound a cycle run.
type Settings struct {
	Cooldown       time.Duration
	WorkerPoolSize int
	Timeout        time.Duration
}

// Dependencies are the collaborators a cycle reads from and writes to.
type Dependencies struct {
	CycleStore        store.CycleStoreInterface
	IntroductionStore introductionstore.IntroductionStoreInterface
	Introductions     introductionservice.IntroductionServiceInterface
	Rules             ruleservice.MatchingRuleServiceInterface
	Members           memberservice.MemberServiceInterface
	Notifier          notificationservice.NotificationServiceInterface
	Engine            *scoring.Engine
}

// CycleService runs introduction cycles: claim the cooldown, rank every eligible pair, pick a
// conflict-free set greedily and persist it as suggestions.
type CycleService struct {
	deps     Dependencies
	settings Settings
	now      func() time.Time
}

var (
	cycleService     CycleServiceInterface
	cycleServiceOnce sync.Once
)

// GetCycleService returns the process wide cycle service built from the runtime configuration.
func GetCycleService() CycleServiceInterface {

	cycleServiceOnce.Do(func() {
		matching := config.GetRuntime().Config.Matching
		engine := scoring.NewEngine(scoring.NewRegistry(), scoring.Settings{
			NewMemberWindow: matching.NewMemberWindow,
			RecencyWindow:   matching.RecencyWindow,
		})
		cycleService = NewCycleService(Dependencies{
			CycleStore:        store.NewCycleStore(),
			IntroductionStore: introductionstore.NewIntroductionStore(),
			Introductions:     introductionservice.GetIntroductionService(),
			Rules:             ruleprovider.NewMatchingRuleProvider().GetMatchingRuleService(),
			Members:           memberprovider.NewMemberProvider().GetMemberService(),
			Notifier:          notificationprovider.NewNotificationProvider().GetNotificationService(),
			Engine:            engine,
		}, Settings{
			Cooldown:       matching.Cooldown,
			WorkerPoolSize: matching.WorkerPoolSize,
			Timeout:        matching.CycleTimeout,
		}, time.Now)
	})
	return cycleService
}

func NewCycleService(deps Dependencies, settings Settings, now func() time.Time) *CycleService {
	if settings.WorkerPoolSize < 1 {
		settings.WorkerPoolSize = constants.DefaultWorkerPoolSize
	}
	return &CycleService{
		deps:     deps,
		settings: settings,
		now:      now,
	}
}

// RunCycle executes one cycle. Without force it is skipped while the cooldown holds. A cycle that
// aborts or finds too few members gives its claim back, so last_run_at only moves for cycles that ran.
// Cancellation and the cycle timeout only abort while members are loaded and scored; persisting and
// notifying the selected pairs ignores them.
func (s *CycleService) RunCycle(ctx context.Context, force bool) (*model.CycleResult, error) {

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}
	logger := log.ForContext(ctx)

	claimedAt := s.now().UTC()
	claimed, err := s.deps.CycleStore.ClaimCycle(ctx, claimedAt, force, s.settings.Cooldown)
	if err != nil {
		return nil, err
	}
	if !claimed {
		logger.Info("Skipping introduction cycle, cooldown has not elapsed")
		result := &model.CycleResult{Skipped: true, Reason: constants.SkipReasonCooldown}
		s.audit(ctx, log.ActionSkipCycle, result, force)
		return result, nil
	}

	result, err := s.execute(ctx, claimedAt)
	if err != nil || result.Skipped {
		s.release(ctx, claimedAt)
	}
	if err != nil {
		logger.Error("Introduction cycle aborted", log.Error(err))
		return nil, err
	}

	if result.Skipped {
		s.audit(ctx, log.ActionSkipCycle, result, force)
	} else {
		s.complete(ctx, claimedAt)
		logger.Info("Introduction cycle finished", log.Int("generated", result.Generated))
		s.audit(ctx, log.ActionRunCycle, result, force)
	}
	return result, nil
}

func (s *CycleService) execute(ctx context.Context, at time.Time) (*model.CycleResult, error) {

	members, selected, err := s.rank(ctx, at)
	if err != nil {
		return nil, err
	}
	if len(members) < 2 {
		return &model.CycleResult{Skipped: true, Reason: constants.SkipReasonInsufficientMembers}, nil
	}

	// Only scoring aborts on ctx. Persisting and notifying run to the end so every stored row is
	// notified and keeps the claim.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	logger := log.GetLogger()
	created := make([]intromodel.Introduction, 0, len(selected))
	var persistErr error
	for _, candidate := range selected {
		introduction, err := s.deps.Introductions.SuggestIntroduction(persistCtx, candidate.Pair)
		if err != nil {
			if errors2.IsConflict(err) {
				logger.Info("Pair gained a live introduction during the cycle, skipping it",
					log.String("member_low_id", candidate.Pair.Low),
					log.String("member_high_id", candidate.Pair.High))
				continue
			}
			persistErr = err
			break
		}
		created = append(created, *introduction)
	}
	if persistErr != nil {
		if len(created) == 0 {
			return nil, persistErr
		}
		logger.Error("Introduction cycle stopped after a failed insert, keeping the stored suggestions",
			log.Error(persistErr), log.Int("generated", len(created)))
	}

	for _, introduction := range created {
		s.deps.Notifier.NotifyIntroduction(introduction, introduction.MemberLowId)
		s.deps.Notifier.NotifyIntroduction(introduction, introduction.MemberHighId)
	}
	return &model.CycleResult{Generated: len(created)}, nil
}

// rank runs the read-only part of a cycle: it snapshots members and rules, excludes live pairs and
// returns the active members with the greedy selection.
func (s *CycleService) rank(ctx context.Context, at time.Time) ([]membermodel.Member, []scoring.Candidate, error) {

	members, err := s.deps.Members.ListActiveMembers(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(members) < 2 {
		return members, nil, nil
	}
	rules, err := s.deps.Rules.ListRules(ctx)
	if err != nil {
		return nil, nil, err
	}
	livePairs, err := s.deps.IntroductionStore.ListLivePairs(ctx)
	if err != nil {
		return nil, nil, err
	}
	excluded := make(map[intromodel.Pair]struct{}, len(livePairs))
	for _, pair := range livePairs {
		excluded[pair] = struct{}{}
	}
	history, err := s.pairHistory(ctx)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := s.deps.Engine.Rank(ctx, scoring.RankInput{
		Members:  members,
		Rules:    rules,
		Excluded: excluded,
		History:  history,
		At:       at,
	}, s.settings.WorkerPoolSize)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, aborted(ctx.Err())
		}
		return nil, nil, err
	}
	return members, scoring.SelectGreedy(candidates), nil
}

// pairHistory folds the non-live introductions into one entry per pair. A pair has met when any of its
// introductions was completed; the latest meeting wins.
func (s *CycleService) pairHistory(ctx context.Context) (map[intromodel.Pair]scoring.PairHistory, error) {

	entries, err := s.deps.IntroductionStore.ListPairHistory(ctx)
	if err != nil {
		return nil, err
	}
	history := make(map[intromodel.Pair]scoring.PairHistory)
	for _, entry := range entries {
		if !entry.Status.IsMet() {
			continue
		}
		meetingAt := entry.UpdatedAt
		if entry.CompletedAt != nil {
			meetingAt = *entry.CompletedAt
		}
		current := history[entry.Pair]
		current.Met = true
		if current.LastMeetingAt == nil || meetingAt.After(*current.LastMeetingAt) {
			current.LastMeetingAt = &meetingAt
		}
		history[entry.Pair] = current
	}
	return history, nil
}

// DryRun previews the suggestions the next cycle would make without claiming or persisting anything.
func (s *CycleService) DryRun(ctx context.Context, limit int) (*model.DryRunResponse, error) {

	if limit <= 0 {
		limit = constants.DefaultDryRunLimit
	}
	members, selected, err := s.rank(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if len(selected) > limit {
		selected = selected[:limit]
	}
	candidates := make([]model.DryRunCandidate, 0, len(selected))
	for _, candidate := range selected {
		candidates = append(candidates, model.DryRunCandidate{
			MemberLowId:  candidate.Pair.Low,
			MemberHighId: candidate.Pair.High,
			Score:        candidate.Score,
		})
	}
	return &model.DryRunResponse{Candidates: candidates, Members: len(members)}, nil
}

// GetCycleStats counts auto introductions by outcome.
func (s *CycleService) GetCycleStats(ctx context.Context) (*model.CycleStats, error) {

	counts, err := s.deps.IntroductionStore.CountAutoIntroductionsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	run, err := s.deps.CycleStore.GetCycleRun(ctx)
	if err != nil {
		return nil, err
	}
	stats := &model.CycleStats{LastRunAt: run.LastRunAt}
	for status, count := range counts {
		stats.GeneratedTotal += count
		switch status {
		case intromodel.StatusSuggested, intromodel.StatusPending:
			stats.PendingTotal += count
		case intromodel.StatusAccepted, intromodel.StatusScheduled, intromodel.StatusCompleted,
			intromodel.StatusClosed:
			stats.AcceptedTotal += count
		case intromodel.StatusDeclined:
			stats.DeclinedTotal += count
		}
	}
	return stats, nil
}

func (s *CycleService) GetLastCycle(ctx context.Context) (*model.LastCycleResponse, error) {

	run, err := s.deps.CycleStore.GetCycleRun(ctx)
	if err != nil {
		return nil, err
	}
	return &model.LastCycleResponse{LastRunAt: run.LastRunAt}, nil
}

// release gives the claim back even when ctx is already done.
func (s *CycleService) release(ctx context.Context, claimedAt time.Time) {

	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := s.deps.CycleStore.ReleaseCycle(releaseCtx, claimedAt); err != nil {
		log.GetLogger().Error("Failed to release the cycle claim", log.Error(err),
			log.String("claimed_at", claimedAt.Format(time.RFC3339)))
	}
}

func (s *CycleService) complete(ctx context.Context, claimedAt time.Time) {

	completeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := s.deps.CycleStore.CompleteCycle(completeCtx, claimedAt); err != nil {
		log.GetLogger().Error("Failed to mark the cycle as completed", log.Error(err),
			log.String("claimed_at", claimedAt.Format(time.RFC3339)))
	}
}

func (s *CycleService) audit(ctx context.Context, action string, result *model.CycleResult, force bool) {
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   constants.SystemActor,
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      "cycle",
		TargetType:    log.TargetTypeCycle,
		ActionID:      action,
		TraceID:       cnxcontext.TraceID(ctx),
		Data: map[string]interface{}{
			"force":     force,
			"skipped":   result.Skipped,
			"generated": result.Generated,
			"reason":    result.Reason,
		},
	})
}

func aborted(cause error) error {
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.CYCLE_ABORTED.Code,
		Message:     errors2.CYCLE_ABORTED.Message,
		Description: fmt.Sprintf("Introduction cycle aborted: %v", cause),
	}, cause)
}
