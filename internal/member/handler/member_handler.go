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
	"net/http"

	"github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/member/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/member/service"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/security"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

type MemberHandler struct {
	service service.MemberServiceInterface
}

func NewMemberHandler() *MemberHandler {

	return &MemberHandler{
		service: provider.NewMemberProvider().GetMemberService(),
	}
}

func NewMemberHandlerWithService(memberService service.MemberServiceInterface) *MemberHandler {

	return &MemberHandler{service: memberService}
}

// GetMember returns a member to the administrator or to the member themselves.
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request, memberId string) {

	principal, err := security.Authenticate(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := security.AuthorizeMember(principal, memberId); err != nil {
		utils.HandleError(w, err)
		return
	}
	member, err := h.service.GetMember(r.Context(), memberId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, member, constants.ResourceMember)
}

// PutMember creates or replaces a member. Only the administrator maintains the directory.
func (h *MemberHandler) PutMember(w http.ResponseWriter, r *http.Request, memberId string) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}
	var member model.Member
	if err := utils.DecodeJSONBody(r, &member, constants.ResourceMember); err != nil {
		utils.HandleError(w, err)
		return
	}
	if member.MemberId != "" && member.MemberId != memberId {
		utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: "member_id in the body does not match the path.",
		}, http.StatusBadRequest))
		return
	}
	member.MemberId = memberId
	if err := h.service.UpsertMember(r.Context(), member); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, member, constants.ResourceMember)
}
