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
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/introduction/store"
	memberprovider "github.com/sr9691/circleblast-nexus-sub000/internal/member/provider"
	memberservice "github.com/sr9691/circleblast-nexus-sub000/internal/member/service"
	notificationprovider "github.com/sr9691/circleblast-nexus-sub000/internal/notification/provider"
	notificationservice "github.com/sr9691/circleblast-nexus-sub000/internal/notification/service"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	cnxcontext "github.com/sr9691/circleblast-nexus-sub000/internal/system/context"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

// IntroductionServiceInterface is the lifecycle surface for introductions.
type IntroductionServiceInterface interface {
	RequestIntroduction(ctx context.Context, requesterId, targetId string) (*model.Introduction, error)
	SuggestIntroduction(ctx context.Context, pair model.Pair) (*model.Introduction, error)
	Accept(ctx context.Context, introductionId, responderId string) (*model.Introduction, error)
	Decline(ctx context.Context, introductionId, responderId string) (*model.Introduction, error)
	Schedule(ctx context.Context, introductionId, actorId string, when time.Time) (*model.Introduction, error)
	Complete(ctx context.Context, introductionId, actorId string) (*model.Introduction, error)
	Cancel(ctx context.Context, introductionId, actorId string) (*model.Introduction, error)
	RecordNotes(ctx context.Context, introductionId, authorId, notes string) (*model.Introduction, error)
	GetIntroduction(ctx context.Context, introductionId string) (*model.Introduction, error)
	GetNotes(ctx context.Context, introductionId string) ([]model.Note, error)
	ListIntroductionsForMember(ctx context.Context, memberId string, limit int) ([]model.Introduction, error)
}

// IntroductionService enforces the introduction state machine on top of the store's
// compare-and-set transitions.
type IntroductionService struct {
	store    store.IntroductionStoreInterface
	members  memberservice.MemberServiceInterface
	notifier notificationservice.NotificationServiceInterface
	now      func() time.Time
}

var (
	introductionService     IntroductionServiceInterface
	introductionServiceOnce sync.Once
)

// GetIntroductionService returns the process wide lifecycle service.
func GetIntroductionService() IntroductionServiceInterface {

	introductionServiceOnce.Do(func() {
		introductionService = NewIntroductionService(store.NewIntroductionStore(),
			memberprovider.NewMemberProvider().GetMemberService(),
			notificationprovider.NewNotificationProvider().GetNotificationService(), time.Now)
	})
	return introductionService
}

func NewIntroductionService(introductionStore store.IntroductionStoreInterface,
	members memberservice.MemberServiceInterface, notifier notificationservice.NotificationServiceInterface,
	now func() time.Time) *IntroductionService {
	return &IntroductionService{
		store:    introductionStore,
		members:  members,
		notifier: notifier,
		now:      now,
	}
}

// RequestIntroduction creates a pending manual introduction and notifies the target.
func (s *IntroductionService) RequestIntroduction(ctx context.Context, requesterId,
	targetId string) (*model.Introduction, error) {

	requesterId = strings.TrimSpace(requesterId)
	targetId = strings.TrimSpace(targetId)
	if requesterId == "" || targetId == "" {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Both the requester and the target member are required.",
		}, http.StatusBadRequest)
	}
	if requesterId == targetId {
		return nil, errors2.NewClientError(errors2.SELF_INTRODUCTION, http.StatusBadRequest)
	}
	for _, memberId := range []string{requesterId, targetId} {
		if err := s.requireActiveMember(ctx, memberId); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	pair := model.NewPair(requesterId, targetId)
	introduction, err := s.store.CreateIntroduction(ctx, model.Introduction{
		IntroductionId: uuid.New().String(),
		MemberLowId:    pair.Low,
		MemberHighId:   pair.High,
		Status:         model.StatusPending,
		Source:         model.SourceManual,
		RequestedBy:    requesterId,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	})
	if err != nil {
		return nil, mapCreateError(err, pair)
	}

	s.audit(ctx, requesterId, introduction, log.ActionRequestIntroduction, nil)
	s.notifier.NotifyIntroduction(*introduction, targetId)
	return introduction, nil
}

// SuggestIntroduction persists an auto-generated suggestion. Notifying the members is left to the caller.
func (s *IntroductionService) SuggestIntroduction(ctx context.Context, pair model.Pair) (*model.Introduction, error) {

	now := s.now().UTC()
	introduction, err := s.store.CreateIntroduction(ctx, model.Introduction{
		IntroductionId: uuid.New().String(),
		MemberLowId:    pair.Low,
		MemberHighId:   pair.High,
		Status:         model.StatusSuggested,
		Source:         model.SourceAuto,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	})
	if err != nil {
		return nil, mapCreateError(err, pair)
	}
	s.audit(ctx, constants.SystemActor, introduction, log.ActionSuggestIntroduction, nil)
	return introduction, nil
}

func (s *IntroductionService) Accept(ctx context.Context, introductionId,
	responderId string) (*model.Introduction, error) {

	return s.respond(ctx, introductionId, responderId, model.StatusAccepted, model.EventAccepted,
		log.ActionAcceptIntroduction)
}

func (s *IntroductionService) Decline(ctx context.Context, introductionId,
	responderId string) (*model.Introduction, error) {

	return s.respond(ctx, introductionId, responderId, model.StatusDeclined, model.EventDeclined,
		log.ActionDeclineIntroduction)
}

func (s *IntroductionService) respond(ctx context.Context, introductionId, responderId string, next model.Status,
	event model.TransitionEvent, action string) (*model.Introduction, error) {

	return s.transition(ctx, transitionRequest{
		introductionId: introductionId,
		actorId:        responderId,
		from:           []model.Status{model.StatusSuggested, model.StatusPending},
		to:             next,
		event:          event,
		action:         action,
		authorize: func(current *model.Introduction) error {
			if !current.IsParticipant(responderId) {
				return notAParticipant(responderId, current.IntroductionId)
			}
			if current.Source == model.SourceManual && current.RequestedBy == responderId {
				return errors2.NewConflictError(errors2.REQUESTER_CANNOT_RESPOND, string(current.Status))
			}
			return nil
		},
	})
}

// Schedule fixes the meeting time of an accepted introduction. when must be strictly in the future.
func (s *IntroductionService) Schedule(ctx context.Context, introductionId, actorId string,
	when time.Time) (*model.Introduction, error) {

	scheduledAt := when.UTC()
	return s.transition(ctx, transitionRequest{
		introductionId: introductionId,
		actorId:        actorId,
		from:           []model.Status{model.StatusAccepted},
		to:             model.StatusScheduled,
		event:          model.EventScheduled,
		action:         log.ActionScheduleIntroduction,
		authorize:      participantOrSystem(actorId),
		validate: func(now time.Time) error {
			if !scheduledAt.After(now) {
				return errors2.NewClientError(errors2.ErrorMessage{
					Code:        errors2.INVALID_SCHEDULE_TIME.Code,
					Message:     errors2.INVALID_SCHEDULE_TIME.Message,
					Description: "The meeting time must be in the future.",
				}, http.StatusBadRequest)
			}
			return nil
		},
		fields: func(fields *model.TransitionFields) {
			fields.ScheduledAt = &scheduledAt
		},
	})
}

// Complete marks a scheduled meeting as held, regardless of how long ago it was scheduled.
func (s *IntroductionService) Complete(ctx context.Context, introductionId,
	actorId string) (*model.Introduction, error) {

	return s.transition(ctx, transitionRequest{
		introductionId: introductionId,
		actorId:        actorId,
		from:           []model.Status{model.StatusScheduled},
		to:             model.StatusCompleted,
		event:          model.EventCompleted,
		action:         log.ActionCompleteIntroduction,
		authorize:      participantOrSystem(actorId),
		fields: func(fields *model.TransitionFields) {
			completedAt := fields.UpdatedAt
			fields.CompletedAt = &completedAt
		},
	})
}

func (s *IntroductionService) Cancel(ctx context.Context, introductionId,
	actorId string) (*model.Introduction, error) {

	return s.transition(ctx, transitionRequest{
		introductionId: introductionId,
		actorId:        actorId,
		from: []model.Status{model.StatusSuggested, model.StatusPending, model.StatusAccepted,
			model.StatusScheduled},
		to:        model.StatusCancelled,
		event:     model.EventCancelled,
		action:    log.ActionCancelIntroduction,
		authorize: participantOrSystem(actorId),
	})
}

// RecordNotes stores the author's debrief of a completed meeting and closes the introduction once
// both members have submitted notes.
func (s *IntroductionService) RecordNotes(ctx context.Context, introductionId, authorId,
	notes string) (*model.Introduction, error) {

	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, errors2.NewClientError(errors2.EMPTY_NOTES, http.StatusBadRequest)
	}
	current, err := s.GetIntroduction(ctx, introductionId)
	if err != nil {
		return nil, err
	}
	if !current.IsParticipant(authorId) {
		return nil, notAParticipant(authorId, introductionId)
	}
	if current.Status != model.StatusCompleted {
		return nil, invalidTransition(current, "given notes")
	}

	now := s.now().UTC()
	if err := s.store.UpsertNote(ctx, model.Note{
		IntroductionId: introductionId,
		AuthorId:       authorId,
		Notes:          notes,
		CreatedAt:      now,
	}); err != nil {
		return nil, err
	}
	s.audit(ctx, authorId, current, log.ActionRecordNotes, nil)

	authors, err := s.store.CountNoteAuthors(ctx, introductionId)
	if err != nil {
		return nil, err
	}
	if authors < 2 {
		return current, nil
	}

	closed, err := s.store.TransitionIntroduction(ctx, introductionId, model.StatusCompleted, current.Version,
		model.StatusClosed, model.TransitionFields{UpdatedAt: now})
	if err != nil {
		var conflict *store.ConflictError
		// The other author's submission closed it first.
		if errors.As(err, &conflict) && conflict.Current != nil && conflict.Current.Status == model.StatusClosed {
			return conflict.Current, nil
		}
		return nil, mapTransitionError(err, introductionId)
	}
	s.audit(ctx, authorId, closed, log.ActionCloseIntroduction, nil)
	s.notifier.NotifyTransition(*closed, model.EventClosed)
	return closed, nil
}

// GetIntroduction fails with 404 for an unknown id.
func (s *IntroductionService) GetIntroduction(ctx context.Context, introductionId string) (*model.Introduction, error) {

	introduction, err := s.store.GetIntroduction(ctx, introductionId)
	if err != nil {
		return nil, err
	}
	if introduction == nil {
		return nil, introductionNotFound(introductionId)
	}
	return introduction, nil
}

func (s *IntroductionService) GetNotes(ctx context.Context, introductionId string) ([]model.Note, error) {

	if _, err := s.GetIntroduction(ctx, introductionId); err != nil {
		return nil, err
	}
	return s.store.GetNotes(ctx, introductionId)
}

func (s *IntroductionService) ListIntroductionsForMember(ctx context.Context, memberId string,
	limit int) ([]model.Introduction, error) {

	return s.store.ListIntroductionsForMember(ctx, memberId, limit)
}

type transitionRequest struct {
	introductionId string
	actorId        string
	from           []model.Status
	to             model.Status
	event          model.TransitionEvent
	action         string
	authorize      func(current *model.Introduction) error
	validate       func(now time.Time) error
	fields         func(fields *model.TransitionFields)
}

// transition loads the introduction, checks the actor and the source status, and applies the change with
// the loaded status and version as the expected values. A concurrent writer makes the store report a
// conflict, which is surfaced with the state that won.
func (s *IntroductionService) transition(ctx context.Context, req transitionRequest) (*model.Introduction, error) {

	current, err := s.GetIntroduction(ctx, req.introductionId)
	if err != nil {
		return nil, err
	}
	if err := req.authorize(current); err != nil {
		return nil, err
	}
	if !statusIn(current.Status, req.from) {
		return nil, invalidTransition(current, string(req.event))
	}

	now := s.now().UTC()
	if req.validate != nil {
		if err := req.validate(now); err != nil {
			return nil, err
		}
	}
	fields := model.TransitionFields{UpdatedAt: now}
	if req.fields != nil {
		req.fields(&fields)
	}

	updated, err := s.store.TransitionIntroduction(ctx, req.introductionId, current.Status, current.Version,
		req.to, fields)
	if err != nil {
		return nil, mapTransitionError(err, req.introductionId)
	}

	s.audit(ctx, req.actorId, updated, req.action, map[string]interface{}{
		"from": current.Status,
		"to":   updated.Status,
	})
	s.notifier.NotifyTransition(*updated, req.event)
	return updated, nil
}

func (s *IntroductionService) requireActiveMember(ctx context.Context, memberId string) error {

	member, err := s.members.GetMember(ctx, memberId)
	if err != nil {
		return err
	}
	if !member.IsActive() {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MEMBER_NOT_FOUND.Code,
			Message:     errors2.MEMBER_NOT_FOUND.Message,
			Description: fmt.Sprintf("No active member found with id: %s", memberId),
		}, http.StatusNotFound)
	}
	return nil
}

func (s *IntroductionService) audit(ctx context.Context, actorId string, introduction *model.Introduction,
	action string, data map[string]interface{}) {

	initiatorType := log.InitiatorTypeMember
	if actorId == constants.SystemActor {
		initiatorType = log.InitiatorTypeSystem
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["status"] = introduction.Status
	data["source"] = introduction.Source
	data["member_low_id"] = introduction.MemberLowId
	data["member_high_id"] = introduction.MemberHighId
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   actorId,
		InitiatorType: initiatorType,
		TargetID:      introduction.IntroductionId,
		TargetType:    log.TargetTypeIntroduction,
		ActionID:      action,
		TraceID:       cnxcontext.TraceID(ctx),
		Data:          data,
	})
}

func participantOrSystem(actorId string) func(current *model.Introduction) error {
	return func(current *model.Introduction) error {
		if actorId == constants.SystemActor || current.IsParticipant(actorId) {
			return nil
		}
		return notAParticipant(actorId, current.IntroductionId)
	}
}

func statusIn(status model.Status, allowed []model.Status) bool {
	for _, candidate := range allowed {
		if status == candidate {
			return true
		}
	}
	return false
}

func mapCreateError(err error, pair model.Pair) error {
	var conflict *store.ConflictError
	if !errors.As(err, &conflict) {
		return err
	}
	currentState := ""
	description := fmt.Sprintf("Members %s and %s already have a live introduction.", pair.Low, pair.High)
	if conflict.Current != nil {
		currentState = string(conflict.Current.Status)
		description = fmt.Sprintf("Members %s and %s already have introduction %s in status %s.",
			pair.Low, pair.High, conflict.Current.IntroductionId, conflict.Current.Status)
	}
	return errors2.NewConflictError(errors2.ErrorMessage{
		Code:        errors2.LIVE_INTRODUCTION_EXISTS.Code,
		Message:     errors2.LIVE_INTRODUCTION_EXISTS.Message,
		Description: description,
	}, currentState)
}

func mapTransitionError(err error, introductionId string) error {
	if errors.Is(err, store.ErrIntroductionNotFound) {
		return introductionNotFound(introductionId)
	}
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		currentState := ""
		if conflict.Current != nil {
			currentState = string(conflict.Current.Status)
		}
		return errors2.NewConflictError(errors2.ErrorMessage{
			Code:        errors2.INVALID_TRANSITION.Code,
			Message:     errors2.INVALID_TRANSITION.Message,
			Description: fmt.Sprintf("Introduction %s was changed by another request.", introductionId),
		}, currentState)
	}
	return err
}

func invalidTransition(current *model.Introduction, operation string) error {
	return errors2.NewConflictError(errors2.ErrorMessage{
		Code:    errors2.INVALID_TRANSITION.Code,
		Message: errors2.INVALID_TRANSITION.Message,
		Description: fmt.Sprintf("Introduction %s cannot be %s while it is %s.", current.IntroductionId,
			operation, current.Status),
	}, string(current.Status))
}

func notAParticipant(actorId, introductionId string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.NOT_A_PARTICIPANT.Code,
		Message:     errors2.NOT_A_PARTICIPANT.Message,
		Description: fmt.Sprintf("Member %s is not part of introduction %s.", actorId, introductionId),
	}, http.StatusBadRequest)
}

func introductionNotFound(introductionId string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INTRODUCTION_NOT_FOUND.Code,
		Message:     errors2.INTRODUCTION_NOT_FOUND.Message,
		Description: fmt.Sprintf("No introduction found with id: %s", introductionId),
	}, http.StatusNotFound)
}
