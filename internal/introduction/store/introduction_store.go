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
	"errors"
	"fmt"

	"github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/client"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/scripts"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

// ErrIntroductionNotFound is returned by TransitionIntroduction for an unknown id.
var ErrIntroductionNotFound = errors.New("introduction not found")

// ConflictError reports a write that lost against the persisted state. Current is the row that won,
// or nil when it could not be read back.
type ConflictError struct {
	Current *model.Introduction
}

func (e *ConflictError) Error() string {
	if e.Current == nil {
		return "introduction conflict"
	}
	return fmt.Sprintf("introduction %s conflict: current status is %s", e.Current.IntroductionId, e.Current.Status)
}

// IntroductionStoreInterface is the only way introduction rows are created or changed.
type IntroductionStoreInterface interface {
	// CreateIntroduction fails with *ConflictError when the pair already has a live introduction.
	CreateIntroduction(ctx context.Context, introduction model.Introduction) (*model.Introduction, error)
	// GetIntroduction returns nil when the introduction does not exist.
	GetIntroduction(ctx context.Context, introductionId string) (*model.Introduction, error)
	// TransitionIntroduction moves an introduction from expected to next only if status and version still
	// match. It fails with *ConflictError carrying the current row, or ErrIntroductionNotFound.
	TransitionIntroduction(ctx context.Context, introductionId string, expected model.Status, expectedVersion int64,
		next model.Status, fields model.TransitionFields) (*model.Introduction, error)
	ListLivePairs(ctx context.Context) ([]model.Pair, error)
	ListPairHistory(ctx context.Context) ([]model.PairHistoryEntry, error)
	ListIntroductionsForMember(ctx context.Context, memberId string, limit int) ([]model.Introduction, error)
	UpsertNote(ctx context.Context, note model.Note) error
	CountNoteAuthors(ctx context.Context, introductionId string) (int, error)
	GetNotes(ctx context.Context, introductionId string) ([]model.Note, error)
	CountAutoIntroductionsByStatus(ctx context.Context) (map[model.Status]int64, error)
}

// IntroductionStore is the SQL implementation of IntroductionStoreInterface.
type IntroductionStore struct{}

func NewIntroductionStore() IntroductionStoreInterface {
	return &IntroductionStore{}
}

func getDBClient(purpose string) (client.DBClientInterface, string, error) {

	dbProvider := provider.NewDBProvider()
	dbClient, err := dbProvider.GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for %s", purpose)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, "", errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	return dbClient, dbProvider.GetDBType(), nil
}

func serverError(code errors2.ErrorMessage, errorMsg string, err error) error {
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        code.Code,
		Message:     code.Message,
		Description: errorMsg,
	}, err)
}

func (s *IntroductionStore) CreateIntroduction(ctx context.Context,
	introduction model.Introduction) (*model.Introduction, error) {

	dbClient, dbType, err := getDBClient("adding introduction")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	var requestedBy interface{}
	if introduction.RequestedBy != "" {
		requestedBy = introduction.RequestedBy
	}
	_, err = dbClient.Execute(ctx, scripts.InsertIntroduction[dbType],
		introduction.IntroductionId, introduction.MemberLowId, introduction.MemberHighId,
		string(introduction.Status), string(introduction.Source), requestedBy,
		introduction.CreatedAt.UnixMilli(), utils.ToMillisPtr(introduction.ScheduledAt),
		utils.ToMillisPtr(introduction.CompletedAt), introduction.UpdatedAt.UnixMilli(), introduction.Version)
	if err != nil {
		if client.IsUniqueViolation(err) {
			live, getErr := s.getLiveIntroductionForPair(ctx, introduction.Pair())
			if getErr != nil {
				log.GetLogger().Debug("Failed to read back the live introduction after a conflict", log.Error(getErr))
			}
			return nil, &ConflictError{Current: live}
		}
		return nil, serverError(errors2.ADD_INTRODUCTION,
			fmt.Sprintf("Failed in adding introduction for pair %s/%s", introduction.MemberLowId,
				introduction.MemberHighId), err)
	}
	return &introduction, nil
}

func (s *IntroductionStore) getLiveIntroductionForPair(ctx context.Context, pair model.Pair) (*model.Introduction, error) {

	dbClient, dbType, err := getDBClient("fetching live introduction")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.GetLiveIntroductionForPair[dbType], pair.Low, pair.High)
	if err != nil {
		return nil, serverError(errors2.FETCH_INTRODUCTIONS,
			fmt.Sprintf("Failed in fetching live introduction for pair %s/%s", pair.Low, pair.High), err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	introduction := mapRowToIntroduction(results[0])
	return &introduction, nil
}

func (s *IntroductionStore) GetIntroduction(ctx context.Context, introductionId string) (*model.Introduction, error) {

	dbClient, dbType, err := getDBClient("fetching introduction " + introductionId)
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.GetIntroduction[dbType], introductionId)
	if err != nil {
		return nil, serverError(errors2.FETCH_INTRODUCTIONS,
			fmt.Sprintf("Failed in fetching introduction: %s", introductionId), err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	introduction := mapRowToIntroduction(results[0])
	return &introduction, nil
}

func (s *IntroductionStore) TransitionIntroduction(ctx context.Context, introductionId string, expected model.Status,
	expectedVersion int64, next model.Status, fields model.TransitionFields) (*model.Introduction, error) {

	dbClient, dbType, err := getDBClient("updating introduction " + introductionId)
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.TransitionIntroduction[dbType],
		introductionId, string(expected), expectedVersion, string(next), fields.UpdatedAt.UnixMilli(),
		utils.ToMillisPtr(fields.ScheduledAt), utils.ToMillisPtr(fields.CompletedAt))
	if err != nil {
		return nil, serverError(errors2.TRANSITION_INTRODUCTION,
			fmt.Sprintf("Failed in moving introduction %s from %s to %s", introductionId, expected, next), err)
	}
	if len(results) > 0 {
		introduction := mapRowToIntroduction(results[0])
		return &introduction, nil
	}

	current, err := s.GetIntroduction(ctx, introductionId)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrIntroductionNotFound
	}
	return nil, &ConflictError{Current: current}
}

func (s *IntroductionStore) ListLivePairs(ctx context.Context) ([]model.Pair, error) {

	dbClient, dbType, err := getDBClient("fetching live pairs")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.GetLivePairs[dbType])
	if err != nil {
		return nil, serverError(errors2.FETCH_INTRODUCTIONS, "Failed in fetching live introduction pairs", err)
	}
	pairs := make([]model.Pair, 0, len(results))
	for _, row := range results {
		pairs = append(pairs, model.Pair{
			Low:  utils.AsString(row["member_low_id"]),
			High: utils.AsString(row["member_high_id"]),
		})
	}
	return pairs, nil
}

func (s *IntroductionStore) ListPairHistory(ctx context.Context) ([]model.PairHistoryEntry, error) {

	dbClient, dbType, err := getDBClient("fetching pair history")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.GetPairHistory[dbType])
	if err != nil {
		return nil, serverError(errors2.FETCH_INTRODUCTIONS, "Failed in fetching introduction history", err)
	}
	history := make([]model.PairHistoryEntry, 0, len(results))
	for _, row := range results {
		history = append(history, model.PairHistoryEntry{
			Pair: model.Pair{
				Low:  utils.AsString(row["member_low_id"]),
				High: utils.AsString(row["member_high_id"]),
			},
			Status:      model.Status(utils.AsString(row["status"])),
			CompletedAt: utils.AsTimePtr(row["completed_at"]),
			UpdatedAt:   utils.AsTime(row["updated_at"]),
		})
	}
	return history, nil
}

func (s *IntroductionStore) ListIntroductionsForMember(ctx context.Context, memberId string,
	limit int) ([]model.Introduction, error) {

	dbClient, dbType, err := getDBClient("fetching introductions of member " + memberId)
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.GetIntroductionsForMember[dbType], memberId, limit)
	if err != nil {
		return nil, serverError(errors2.FETCH_INTRODUCTIONS,
			fmt.Sprintf("Failed in fetching introductions of member: %s", memberId), err)
	}
	introductions := make([]model.Introduction, 0, len(results))
	for _, row := range results {
		introductions = append(introductions, mapRowToIntroduction(row))
	}
	return introductions, nil
}

func (s *IntroductionStore) UpsertNote(ctx context.Context, note model.Note) error {

	dbClient, dbType, err := getDBClient("recording introduction notes")
	if err != nil {
		return err
	}
	defer dbClient.Close()

	_, err = dbClient.Execute(ctx, scripts.UpsertIntroductionNote[dbType],
		note.IntroductionId, note.AuthorId, note.Notes, note.CreatedAt.UnixMilli())
	if err != nil {
		return serverError(errors2.RECORD_NOTES,
			fmt.Sprintf("Failed in recording notes of %s for introduction %s", note.AuthorId, note.IntroductionId), err)
	}
	return nil
}

func (s *IntroductionStore) CountNoteAuthors(ctx context.Context, introductionId string) (int, error) {

	dbClient, dbType, err := getDBClient("counting introduction notes")
	if err != nil {
		return 0, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.CountNoteAuthors[dbType], introductionId)
	if err != nil {
		return 0, serverError(errors2.RECORD_NOTES,
			fmt.Sprintf("Failed in counting notes for introduction: %s", introductionId), err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return int(utils.AsInt64(results[0]["author_count"])), nil
}

func (s *IntroductionStore) GetNotes(ctx context.Context, introductionId string) ([]model.Note, error) {

	dbClient, dbType, err := getDBClient("fetching introduction notes")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.GetIntroductionNotes[dbType], introductionId)
	if err != nil {
		return nil, serverError(errors2.FETCH_INTRODUCTIONS,
			fmt.Sprintf("Failed in fetching notes for introduction: %s", introductionId), err)
	}
	notes := make([]model.Note, 0, len(results))
	for _, row := range results {
		notes = append(notes, model.Note{
			IntroductionId: utils.AsString(row["introduction_id"]),
			AuthorId:       utils.AsString(row["author_id"]),
			Notes:          utils.AsString(row["notes"]),
			CreatedAt:      utils.AsTime(row["created_at"]),
		})
	}
	return notes, nil
}

func (s *IntroductionStore) CountAutoIntroductionsByStatus(ctx context.Context) (map[model.Status]int64, error) {

	dbClient, dbType, err := getDBClient("counting auto introductions")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQueryContext(ctx, scripts.CountAutoIntroductionsByStatus[dbType])
	if err != nil {
		return nil, serverError(errors2.FETCH_INTRODUCTIONS, "Failed in counting auto introductions", err)
	}
	counts := make(map[model.Status]int64, len(results))
	for _, row := range results {
		counts[model.Status(utils.AsString(row["status"]))] = utils.AsInt64(row["total"])
	}
	return counts, nil
}

func mapRowToIntroduction(row map[string]interface{}) model.Introduction {
	return model.Introduction{
		IntroductionId: utils.AsString(row["introduction_id"]),
		MemberLowId:    utils.AsString(row["member_low_id"]),
		MemberHighId:   utils.AsString(row["member_high_id"]),
		Status:         model.Status(utils.AsString(row["status"])),
		Source:         model.Source(utils.AsString(row["source"])),
		RequestedBy:    utils.AsString(row["requested_by"]),
		CreatedAt:      utils.AsTime(row["created_at"]),
		ScheduledAt:    utils.AsTimePtr(row["scheduled_at"]),
		CompletedAt:    utils.AsTimePtr(row["completed_at"]),
		UpdatedAt:      utils.AsTime(row["updated_at"]),
		Version:        utils.AsInt64(row["version"]),
	}
}
