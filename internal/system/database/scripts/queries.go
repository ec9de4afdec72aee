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

package scripts

import "regexp"

var positionalParam = regexp.MustCompile(`\$(\d+)`)

// forAllDBs keys a postgres query by every supported datasource type. sqlite gets ?N placeholders.
func forAllDBs(query string) map[string]string {
	return map[string]string{
		"postgres": query,
		"sqlite":   positionalParam.ReplaceAllString(query, "?$1"),
	}
}

// Matching rules

const matchingRuleColumns = `rule_id, rule_key, label, description, weight, is_active, created_at, updated_at`

var GetMatchingRules = forAllDBs(`SELECT ` + matchingRuleColumns + ` FROM matching_rules ORDER BY rule_key`)

var GetMatchingRule = forAllDBs(`SELECT ` + matchingRuleColumns + ` FROM matching_rules WHERE rule_id = $1`)

var UpdateMatchingRule = forAllDBs(`UPDATE matching_rules SET weight = COALESCE($2, weight),
	is_active = COALESCE($3, is_active), updated_at = $4 WHERE rule_id = $1 RETURNING ` + matchingRuleColumns)

var InsertMatchingRuleIfMissing = forAllDBs(`INSERT INTO matching_rules (` + matchingRuleColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (rule_key) DO NOTHING`)

// Members

const memberColumns = `member_id, name, email, status, join_date, expertise, looking_for, can_help_with, industry`

var GetMembersByStatus = forAllDBs(`SELECT ` + memberColumns + ` FROM members WHERE status = $1 ORDER BY member_id`)

var GetMember = forAllDBs(`SELECT ` + memberColumns + ` FROM members WHERE member_id = $1`)

var UpsertMember = forAllDBs(`INSERT INTO members (` + memberColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (member_id) DO UPDATE SET name = excluded.name,
	email = excluded.email, status = excluded.status, join_date = excluded.join_date, expertise = excluded.expertise,
	looking_for = excluded.looking_for, can_help_with = excluded.can_help_with, industry = excluded.industry`)

// Introductions

const introductionColumns = `introduction_id, member_low_id, member_high_id, status, source, requested_by,
	created_at, scheduled_at, completed_at, updated_at, version`

const liveStatuses = `('suggested', 'pending', 'accepted', 'scheduled')`

var InsertIntroduction = forAllDBs(`INSERT INTO introductions (` + introductionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)

var GetIntroduction = forAllDBs(`SELECT ` + introductionColumns + ` FROM introductions WHERE introduction_id = $1`)

var GetLiveIntroductionForPair = forAllDBs(`SELECT ` + introductionColumns + ` FROM introductions
	WHERE member_low_id = $1 AND member_high_id = $2 AND status IN ` + liveStatuses)

var GetLivePairs = forAllDBs(`SELECT member_low_id, member_high_id FROM introductions WHERE status IN ` + liveStatuses)

var GetPairHistory = forAllDBs(`SELECT member_low_id, member_high_id, status, completed_at, updated_at
	FROM introductions WHERE status NOT IN ` + liveStatuses)

var GetIntroductionsForMember = forAllDBs(`SELECT ` + introductionColumns + ` FROM introductions
	WHERE member_low_id = $1 OR member_high_id = $1 ORDER BY created_at DESC, introduction_id LIMIT $2`)

var TransitionIntroduction = forAllDBs(`UPDATE introductions SET status = $4, version = version + 1, updated_at = $5,
	scheduled_at = COALESCE($6, scheduled_at), completed_at = COALESCE($7, completed_at)
	WHERE introduction_id = $1 AND status = $2 AND version = $3 RETURNING ` + introductionColumns)

var CountAutoIntroductionsByStatus = forAllDBs(`SELECT status, COUNT(*) AS total FROM introductions
	WHERE source = 'auto' GROUP BY status`)

// Introduction notes

var UpsertIntroductionNote = forAllDBs(`INSERT INTO introduction_notes (introduction_id, author_id, notes, created_at)
	VALUES ($1, $2, $3, $4) ON CONFLICT (introduction_id, author_id) DO UPDATE SET notes = excluded.notes,
	created_at = excluded.created_at`)

var CountNoteAuthors = forAllDBs(`SELECT COUNT(*) AS author_count FROM introduction_notes WHERE introduction_id = $1`)

var GetIntroductionNotes = forAllDBs(`SELECT introduction_id, author_id, notes, created_at FROM introduction_notes
	WHERE introduction_id = $1 ORDER BY author_id`)

// Cycle runs

var EnsureCycleRun = forAllDBs(`INSERT INTO cycle_runs (cycle_id) VALUES (1) ON CONFLICT (cycle_id) DO NOTHING`)

// ClaimCycle moves last_run_at forward only when the cooldown elapsed or the claim is forced.
var ClaimCycle = forAllDBs(`UPDATE cycle_runs SET last_run_at = $1
	WHERE cycle_id = 1 AND ($2 OR last_run_at IS NULL OR last_run_at <= $3) RETURNING last_run_at`)

// CompleteCycle records the latest claim that ran to the end. ReleaseCycle falls back to it, so an
// aborted claim never restores the time of another aborted claim.
var CompleteCycle = forAllDBs(`UPDATE cycle_runs SET completed_run_at = $1
	WHERE cycle_id = 1 AND (completed_run_at IS NULL OR completed_run_at < $1)`)

var ReleaseCycle = forAllDBs(`UPDATE cycle_runs SET last_run_at = completed_run_at
	WHERE cycle_id = 1 AND last_run_at = $1`)

var GetCycleRun = forAllDBs(`SELECT last_run_at, completed_run_at FROM cycle_runs WHERE cycle_id = 1`)
