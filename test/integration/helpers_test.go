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

//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	membermodel "github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	memberprovider "github.com/sr9691/circleblast-nexus-sub000/internal/member/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/authn"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/stretchr/testify/require"
)

// resetData clears everything a test may have written except the seeded matching rules.
func resetData(t *testing.T) {
	t.Helper()
	dbClient, err := provider.NewDBProvider().GetDBClient()
	require.NoError(t, err)
	for _, table := range []string{"introduction_notes", "introductions", "cycle_runs", "members"} {
		_, err := dbClient.Execute(context.Background(), "DELETE FROM "+table)
		require.NoError(t, err)
	}
}

// seedMembers creates active members with unique ids so cached lookups from other tests never apply.
func seedMembers(t *testing.T, count int) []string {
	t.Helper()
	prefix := uuid.New().String()[:8]
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		member := membermodel.Member{
			MemberId:  prefix + "-m" + string(rune('a'+i)),
			Name:      "Member " + string(rune('A'+i)),
			Email:     "member@example.com",
			Status:    constants.MemberStatusActive,
			JoinDate:  time.Now().AddDate(-1, 0, 0).UTC(),
			Expertise: []string{"go"},
		}
		require.NoError(t, memberprovider.NewMemberProvider().GetMemberService().
			UpsertMember(context.Background(), member))
		ids = append(ids, member.MemberId)
	}
	return ids
}

func memberToken(t *testing.T, memberID string) string {
	t.Helper()
	token, err := authn.IssueMemberToken(memberID, time.Hour)
	require.NoError(t, err)
	return token
}

// call sends a request as the given member, or as the administrator when memberID is empty.
func call(t *testing.T, method, path, memberID string, body interface{}) *http.Response {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, server.URL+constants.ApiBasePath+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if memberID == "" {
		req.SetBasicAuth(adminUsername, adminPassword)
	} else {
		req.Header.Set("Authorization", "Bearer "+memberToken(t, memberID))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeIntroduction(t *testing.T, resp *http.Response) intromodel.Introduction {
	return decode[intromodel.Introduction](t, resp)
}

func decodeError(t *testing.T, resp *http.Response) errors2.ErrorMessage {
	return decode[errors2.ErrorMessage](t, resp)
}
