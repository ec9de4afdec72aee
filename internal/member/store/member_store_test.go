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
	"os"
	"testing"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/test/setup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func TestSqlMemberStore_UpsertAndList(t *testing.T) {
	setup.SetupSqliteTestDB(t)
	ctx := context.Background()
	memberStore := NewSqlMemberStore()
	joined := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, memberStore.UpsertMember(ctx, model.Member{
		MemberId: "m2", Name: "Bea", Status: "active", JoinDate: joined,
		Expertise: []string{"sales"}, LookingFor: []string{"funding"},
	}))
	require.NoError(t, memberStore.UpsertMember(ctx, model.Member{
		MemberId: "m1", Name: "Al", Status: "active", JoinDate: joined, Industry: []string{"retail"},
	}))
	require.NoError(t, memberStore.UpsertMember(ctx, model.Member{
		MemberId: "m3", Name: "Cy", Status: "alumni", JoinDate: joined,
	}))

	active, err := memberStore.ListMembersByStatus(ctx, "active")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "m1", active[0].MemberId)
	assert.Equal(t, "m2", active[1].MemberId)
	assert.Equal(t, []string{"sales"}, active[1].Expertise)
	assert.Equal(t, []string{}, active[1].CanHelpWith)
	assert.True(t, active[1].JoinDate.Equal(joined))
}

func TestSqlMemberStore_UpsertReplacesAndGetMissingIsNil(t *testing.T) {
	setup.SetupSqliteTestDB(t)
	ctx := context.Background()
	memberStore := NewSqlMemberStore()
	joined := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, memberStore.UpsertMember(ctx, model.Member{MemberId: "m1", Status: "active", JoinDate: joined}))
	require.NoError(t, memberStore.UpsertMember(ctx, model.Member{MemberId: "m1", Status: "inactive", JoinDate: joined}))

	member, err := memberStore.GetMember(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, "inactive", member.Status)
	assert.False(t, member.IsActive())

	missing, err := memberStore.GetMember(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
