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

// Schema is valid for both postgres and sqlite. Times are unix milliseconds.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS matching_rules (
		rule_id VARCHAR(64) PRIMARY KEY,
		rule_key VARCHAR(128) NOT NULL UNIQUE,
		label VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		weight DOUBLE PRECISION NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		member_id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		join_date BIGINT NOT NULL,
		expertise TEXT NOT NULL DEFAULT '[]',
		looking_for TEXT NOT NULL DEFAULT '[]',
		can_help_with TEXT NOT NULL DEFAULT '[]',
		industry TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_members_status ON members (status)`,
	`CREATE TABLE IF NOT EXISTS introductions (
		introduction_id VARCHAR(64) PRIMARY KEY,
		member_low_id VARCHAR(64) NOT NULL,
		member_high_id VARCHAR(64) NOT NULL,
		status VARCHAR(16) NOT NULL,
		source VARCHAR(16) NOT NULL,
		requested_by VARCHAR(64),
		created_at BIGINT NOT NULL,
		scheduled_at BIGINT,
		completed_at BIGINT,
		updated_at BIGINT NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		CHECK (member_low_id < member_high_id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_introductions_live_pair ON introductions (member_low_id, member_high_id)
		WHERE status IN ('suggested', 'pending', 'accepted', 'scheduled')`,
	`CREATE INDEX IF NOT EXISTS idx_introductions_low ON introductions (member_low_id)`,
	`CREATE INDEX IF NOT EXISTS idx_introductions_high ON introductions (member_high_id)`,
	`CREATE TABLE IF NOT EXISTS introduction_notes (
		introduction_id VARCHAR(64) NOT NULL REFERENCES introductions (introduction_id),
		author_id VARCHAR(64) NOT NULL,
		notes TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		PRIMARY KEY (introduction_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cycle_runs (
		cycle_id INTEGER PRIMARY KEY,
		last_run_at BIGINT,
		completed_run_at BIGINT
	)`,
	`INSERT INTO cycle_runs (cycle_id) VALUES (1) ON CONFLICT (cycle_id) DO NOTHING`,
}
