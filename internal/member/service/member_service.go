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
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/member/store"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/cache"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
)

// MemberServiceInterface is the member directory as seen by matching and the introduction lifecycle.
type MemberServiceInterface interface {
	ListActiveMembers(ctx context.Context) ([]model.Member, error)
	GetMember(ctx context.Context, memberId string) (*model.Member, error)
	UpsertMember(ctx context.Context, member model.Member) error
}

// MemberService fronts a member store with a TTL cache for single-member lookups.
type MemberService struct {
	store store.MemberStoreInterface
	cache *cache.Cache[model.Member]
}

var (
	memberService     MemberServiceInterface
	memberServiceOnce sync.Once
)

// GetMemberService returns the process wide member service for the configured directory.
func GetMemberService() MemberServiceInterface {

	memberServiceOnce.Do(func() {
		directory := config.GetRuntime().Config.MemberDirectory
		var memberStore store.MemberStoreInterface
		if directory.Type == constants.MongoMemberDirectory {
			memberStore = store.NewMongoMemberStore()
		} else {
			memberStore = store.NewSqlMemberStore()
		}
		memberService = NewMemberService(memberStore, directory.CacheTTL)
	})
	return memberService
}

func NewMemberService(memberStore store.MemberStoreInterface, cacheTTL time.Duration) *MemberService {
	return &MemberService{
		store: memberStore,
		cache: cache.NewCache[model.Member](cacheTTL),
	}
}

// ListActiveMembers always reads through to the store so a cycle sees the current directory.
func (s *MemberService) ListActiveMembers(ctx context.Context) ([]model.Member, error) {

	return s.store.ListMembersByStatus(ctx, constants.MemberStatusActive)
}

// GetMember fails with 404 for an unknown id.
func (s *MemberService) GetMember(ctx context.Context, memberId string) (*model.Member, error) {

	if cached, ok := s.cache.Get(memberId); ok {
		return &cached, nil
	}
	member, err := s.store.GetMember(ctx, memberId)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MEMBER_NOT_FOUND.Code,
			Message:     errors2.MEMBER_NOT_FOUND.Message,
			Description: fmt.Sprintf("No member found with id: %s", memberId),
		}, http.StatusNotFound)
	}
	s.cache.Set(memberId, *member)
	return member, nil
}

// UpsertMember validates and saves a member, dropping any cached copy.
func (s *MemberService) UpsertMember(ctx context.Context, member model.Member) error {

	member.MemberId = strings.TrimSpace(member.MemberId)
	if member.MemberId == "" {
		return badMember("Member id is required.")
	}
	switch member.Status {
	case constants.MemberStatusActive, constants.MemberStatusInactive, constants.MemberStatusAlumni:
	default:
		return badMember(fmt.Sprintf("Unsupported member status '%s'.", member.Status))
	}
	if member.JoinDate.IsZero() {
		return badMember("Member join_date is required.")
	}
	member.JoinDate = member.JoinDate.UTC()

	if err := s.store.UpsertMember(ctx, member); err != nil {
		return err
	}
	s.cache.Delete(member.MemberId)
	return nil
}

func badMember(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.BAD_REQUEST.Code,
		Message:     errors2.BAD_REQUEST.Message,
		Description: description,
	}, http.StatusBadRequest)
}
