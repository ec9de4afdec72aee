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

package constants

const ApiBasePath = "/api/v1"
const MatchingRulesApiPath = "/matching-rules"
const IntroductionsApiPath = "/introductions"
const MembersApiPath = "/members"
const CyclesApiPath = "/cycles"

// SystemActor identifies lifecycle operations performed by the platform or an administrator
// rather than by one of the introduced members.
const SystemActor = "system"

// Supported datasource types.
const (
	PostgresDBType = "postgres"
	SqliteDBType   = "sqlite"
)

// Supported member directory types.
const (
	SqlMemberDirectory   = "sql"
	MongoMemberDirectory = "mongo"
)

// Supported notification sinks.
const (
	KafkaNotifier = "kafka"
	LogNotifier   = "log"
)

// Member statuses.
const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
	MemberStatusAlumni   = "alumni"
)

// Cycle skip reasons.
const (
	SkipReasonCooldown            = "cooldown"
	SkipReasonInsufficientMembers = "insufficient_members"
)

// Action link verbs.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// Default matching settings.
const (
	DefaultCooldownHours       = 24
	DefaultWorkerPoolSize      = 4
	DefaultCycleTimeoutSeconds = 120
	DefaultNewMemberWindowDays = 90
	DefaultRecencyWindowDays   = 180
	DefaultDryRunLimit         = 20
	MaxDryRunLimit             = 500
	DefaultIntroductionsLimit  = 50
	MaxIntroductionsLimit      = 200
)

const ResourceMatchingRule = "matching rule"
const ResourceIntroduction = "introduction"
const ResourceMember = "member"
const ResourceCycle = "cycle"
