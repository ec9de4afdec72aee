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
	"time"

	"github.com/google/uuid"
	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/links"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

// NotificationServiceInterface is fire-and-forget: callers never see delivery failures.
type NotificationServiceInterface interface {
	NotifyIntroduction(introduction intromodel.Introduction, memberId string)
	NotifyTransition(introduction intromodel.Introduction, event intromodel.TransitionEvent)
}

// Enqueuer hands an event to the delivery worker and reports whether it was accepted.
type Enqueuer func(event model.Event) bool

type NotificationService struct {
	enqueue Enqueuer
	signer  *links.Signer
	baseURL string
	now     func() time.Time
}

func NewNotificationService(enqueue Enqueuer, signer *links.Signer, baseURL string,
	now func() time.Time) *NotificationService {
	return &NotificationService{
		enqueue: enqueue,
		signer:  signer,
		baseURL: baseURL,
		now:     now,
	}
}

// NotifyIntroduction tells memberId about a new introduction. Introductions awaiting an answer carry
// signed accept and decline links when a public base URL is configured.
func (s *NotificationService) NotifyIntroduction(introduction intromodel.Introduction, memberId string) {

	event := s.newEvent(model.TypeIntroductionCreated, introduction)
	event.RecipientId = memberId
	if introduction.Status == intromodel.StatusPending {
		event.Event = string(intromodel.EventRequested)
	} else {
		event.Event = string(intromodel.EventSuggested)
	}

	awaitingAnswer := introduction.Status == intromodel.StatusSuggested || introduction.Status == intromodel.StatusPending
	if awaitingAnswer && s.baseURL != "" && s.signer != nil && s.signer.Enabled() {
		actionLinks, err := s.signer.BuildActionLinks(s.baseURL, introduction.IntroductionId, memberId)
		if err != nil {
			log.GetLogger().Warn("Failed to sign action links, sending the notification without them",
				log.String("introduction_id", introduction.IntroductionId), log.Error(err))
		} else {
			event.Links = actionLinks
		}
	}
	s.dispatch(event)
}

// NotifyTransition tells both members that the introduction changed state.
func (s *NotificationService) NotifyTransition(introduction intromodel.Introduction,
	transition intromodel.TransitionEvent) {

	event := s.newEvent(model.TypeIntroductionTransition, introduction)
	event.Event = string(transition)
	s.dispatch(event)
}

func (s *NotificationService) newEvent(eventType string, introduction intromodel.Introduction) model.Event {
	return model.Event{
		EventId:      uuid.New().String(),
		Type:         eventType,
		Introduction: introduction,
		OccurredAt:   s.now().UTC(),
	}
}

func (s *NotificationService) dispatch(event model.Event) {
	if !s.enqueue(event) {
		log.GetLogger().Warn("Notification was not queued",
			log.String("event_id", event.EventId),
			log.String("introduction_id", event.Introduction.IntroductionId))
	}
}
