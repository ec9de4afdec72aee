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

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/introduction/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/introduction/service"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/links"
	notificationprovider "github.com/sr9691/circleblast-nexus-sub000/internal/notification/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/pagination"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/security"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

type IntroductionHandler struct {
	service service.IntroductionServiceInterface
	signer  *links.Signer
}

func NewIntroductionHandler() *IntroductionHandler {

	return &IntroductionHandler{
		service: provider.NewIntroductionProvider().GetIntroductionService(),
		signer:  notificationprovider.NewNotificationProvider().GetLinkSigner(),
	}
}

// NewIntroductionHandlerWithService builds a handler around an explicit service and link signer.
func NewIntroductionHandlerWithService(introductionService service.IntroductionServiceInterface,
	signer *links.Signer) *IntroductionHandler {

	return &IntroductionHandler{service: introductionService, signer: signer}
}

// CreateIntroduction requests a manual introduction. Members request for themselves; the administrator
// names the requester in the body.
func (h *IntroductionHandler) CreateIntroduction(w http.ResponseWriter, r *http.Request) {

	principal, err := security.Authenticate(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	var request model.IntroductionRequest
	if err := utils.DecodeJSONBody(r, &request, constants.ResourceIntroduction); err != nil {
		utils.HandleError(w, err)
		return
	}
	requesterId := request.RequesterId
	if !principal.IsAdmin {
		if requesterId != "" && requesterId != principal.ActorID {
			utils.HandleError(w, security.AuthorizeMember(principal, requesterId))
			return
		}
		requesterId = principal.ActorID
	}

	introduction, err := h.service.RequestIntroduction(r.Context(), requesterId, request.TargetMemberId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, introduction, constants.ResourceIntroduction)
}

// GetIntroduction is visible to the two members and the administrator.
func (h *IntroductionHandler) GetIntroduction(w http.ResponseWriter, r *http.Request, introductionId string) {

	introduction, ok := h.loadVisible(w, r, introductionId)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, introduction, constants.ResourceIntroduction)
}

func (h *IntroductionHandler) GetNotes(w http.ResponseWriter, r *http.Request, introductionId string) {

	if _, ok := h.loadVisible(w, r, introductionId); !ok {
		return
	}
	notes, err := h.service.GetNotes(r.Context(), introductionId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, notes, constants.ResourceIntroduction)
}

func (h *IntroductionHandler) Accept(w http.ResponseWriter, r *http.Request, introductionId string) {
	h.transition(w, r, func(ctx context.Context, actorId string) (*model.Introduction, error) {
		return h.service.Accept(ctx, introductionId, actorId)
	})
}

func (h *IntroductionHandler) Decline(w http.ResponseWriter, r *http.Request, introductionId string) {
	h.transition(w, r, func(ctx context.Context, actorId string) (*model.Introduction, error) {
		return h.service.Decline(ctx, introductionId, actorId)
	})
}

func (h *IntroductionHandler) Complete(w http.ResponseWriter, r *http.Request, introductionId string) {
	h.transition(w, r, func(ctx context.Context, actorId string) (*model.Introduction, error) {
		return h.service.Complete(ctx, introductionId, actorId)
	})
}

func (h *IntroductionHandler) Cancel(w http.ResponseWriter, r *http.Request, introductionId string) {
	h.transition(w, r, func(ctx context.Context, actorId string) (*model.Introduction, error) {
		return h.service.Cancel(ctx, introductionId, actorId)
	})
}

func (h *IntroductionHandler) Schedule(w http.ResponseWriter, r *http.Request, introductionId string) {

	var request model.ScheduleRequest
	if err := utils.DecodeJSONBody(r, &request, constants.ResourceIntroduction); err != nil {
		utils.HandleError(w, err)
		return
	}
	h.transition(w, r, func(ctx context.Context, actorId string) (*model.Introduction, error) {
		return h.service.Schedule(ctx, introductionId, actorId, request.ScheduledAt)
	})
}

func (h *IntroductionHandler) RecordNotes(w http.ResponseWriter, r *http.Request, introductionId string) {

	var request model.NotesRequest
	if err := utils.DecodeJSONBody(r, &request, constants.ResourceIntroduction); err != nil {
		utils.HandleError(w, err)
		return
	}
	h.transition(w, r, func(ctx context.Context, actorId string) (*model.Introduction, error) {
		return h.service.RecordNotes(ctx, introductionId, actorId, request.Notes)
	})
}

// RedeemActionLink applies the accept or decline carried by a signed one-click link. The token is the only
// credential.
func (h *IntroductionHandler) RedeemActionLink(w http.ResponseWriter, r *http.Request) {

	claims, err := h.signer.Verify(strings.TrimSpace(r.URL.Query().Get("token")))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	var introduction *model.Introduction
	if claims.Action == constants.ActionAccept {
		introduction, err = h.service.Accept(r.Context(), claims.IntroductionId, claims.MemberId())
	} else {
		introduction, err = h.service.Decline(r.Context(), claims.IntroductionId, claims.MemberId())
	}
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, model.ActionResponse{
		Action:       claims.Action,
		Introduction: introduction,
	}, constants.ResourceIntroduction)
}

// ListMemberIntroductions lists a member's introductions, newest first.
func (h *IntroductionHandler) ListMemberIntroductions(w http.ResponseWriter, r *http.Request, memberId string) {

	principal, err := security.Authenticate(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := security.AuthorizeMember(principal, memberId); err != nil {
		utils.HandleError(w, err)
		return
	}
	limit, err := pagination.ParseLimit(r, constants.DefaultIntroductionsLimit, constants.MaxIntroductionsLimit)
	if err != nil {
		utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_LIMIT.Code,
			Message:     errors.INVALID_LIMIT.Message,
			Description: err.Error(),
		}, http.StatusBadRequest))
		return
	}
	introductions, err := h.service.ListIntroductionsForMember(r.Context(), memberId, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, introductions, constants.ResourceIntroduction)
}

func (h *IntroductionHandler) transition(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, actorId string) (*model.Introduction, error)) {

	principal, err := security.Authenticate(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	introduction, err := apply(r.Context(), principal.ActorID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, introduction, constants.ResourceIntroduction)
}

func (h *IntroductionHandler) loadVisible(w http.ResponseWriter, r *http.Request,
	introductionId string) (*model.Introduction, bool) {

	principal, err := security.Authenticate(r)
	if err != nil {
		utils.HandleError(w, err)
		return nil, false
	}
	introduction, err := h.service.GetIntroduction(r.Context(), introductionId)
	if err != nil {
		utils.HandleError(w, err)
		return nil, false
	}
	if !principal.IsAdmin && !introduction.IsParticipant(principal.ActorID) {
		utils.HandleError(w, security.AuthorizeMember(principal, introduction.MemberLowId))
		return nil, false
	}
	return introduction, true
}
