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

package store

import (
	"context"
	"fmt"

	"github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/scripts"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

// MemberStoreInterface is the member directory. Implementations return members ordered by id.
type MemberStoreInterface interface {
	ListMembersByStatus(ctx context.Context, status string) ([]model.Member, error)
	// GetMember returns nil when the member does not exist.
	GetMember(ctx context.Context, memberId string) (*model.Member, error)
	UpsertMember(ctx context.Context, member model.Member) error
}

// SqlMemberStore reads members from the members table of the primary datasource.
type SqlMemberStore struct{}

func NewSqlMemberStore() MemberStoreInterface {
	return &SqlMemberStore{}
}

func (s *SqlMemberStore) ListMembersByStatus(ctx context.Context, status string) ([]model.Member, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching %s members", status)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetMembersByStatus[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQueryContext(ctx, query, status)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching %s members", status)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEMBERS.Code,
			Message:     errors2.FETCH_MEMBERS.Message,
			Description: errorMsg,
		}, err)
	}

	members := make([]model.Member, 0, len(results))
	for _, row := range results {
		members = append(members, mapRowToMember(row))
	}
	return members, nil
}

func (s *SqlMemberStore) GetMember(ctx context.Context, memberId string) (*model.Member, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching member: %s", memberId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetMember[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQueryContext(ctx, query, memberId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching member: %s", memberId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEMBERS.Code,
			Message:     errors2.FETCH_MEMBERS.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	member := mapRowToMember(results[0])
	return &member, nil
}

func (s *SqlMemberStore) UpsertMember(ctx context.Context, member model.Member) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for saving member: %s", member.MemberId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.UpsertMember[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.Execute(ctx, query, member.MemberId, member.Name, member.Email, member.Status,
		member.JoinDate.UnixMilli(), utils.ToJSONArray(member.Expertise), utils.ToJSONArray(member.LookingFor),
		utils.ToJSONArray(member.CanHelpWith), utils.ToJSONArray(member.Industry))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in saving member: %s", member.MemberId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.EXECUTE_QUERY.Code,
			Message:     errors2.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

func mapRowToMember(row map[string]interface{}) model.Member {
	return model.Member{
		MemberId:    utils.AsString(row["member_id"]),
		Name:        utils.AsString(row["name"]),
		Email:       utils.AsString(row["email"]),
		Status:      utils.AsString(row["status"]),
		JoinDate:    utils.AsTime(row["join_date"]),
		Expertise:   utils.AsStringSlice(row["expertise"]),
		LookingFor:  utils.AsStringSlice(row["looking_for"]),
		CanHelpWith: utils.AsStringSlice(row["can_help_with"]),
		Industry:    utils.AsStringSlice(row["industry"]),
	}
}
