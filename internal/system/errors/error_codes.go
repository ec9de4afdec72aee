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

package errors

const errorPrefix = "CNX-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize the database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing the database query.",
	}

	FETCH_MATCHING_RULES = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while fetching matching rule(s).",
	}

	UPDATE_MATCHING_RULE = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while updating the matching rule.",
	}

	SEED_MATCHING_RULES = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while seeding the default matching rules.",
	}

	UNKNOWN_SIGNAL = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Matching rule is bound to an unknown signal.",
	}

	FETCH_MEMBERS = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while fetching members from the member directory.",
	}

	ADD_INTRODUCTION = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while adding the introduction.",
	}

	FETCH_INTRODUCTIONS = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while fetching introduction(s).",
	}

	TRANSITION_INTRODUCTION = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while updating the introduction status.",
	}

	RECORD_NOTES = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while recording introduction notes.",
	}

	CLAIM_CYCLE = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while claiming the matching cycle.",
	}

	FETCH_CYCLE = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while fetching the matching cycle state.",
	}

	CYCLE_ABORTED = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Matching cycle aborted.",
	}

	SCHEMA_INIT = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while initializing the database schema.",
	}

	TOKEN_SIGNING_FAILED = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while signing the action token.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	MATCHING_RULE_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Matching rule not found.",
		Description: "No matching rule found for the provided rule_id.",
	}

	INVALID_MATCHING_RULE_UPDATE = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Validation failed for matching rule update.",
	}

	INTRODUCTION_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Introduction not found.",
		Description: "No introduction found for the provided introduction_id.",
	}

	MEMBER_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Member not found.",
	}

	SELF_INTRODUCTION = ErrorMessage{
		Code:        errorPrefix + "11007",
		Message:     "Invalid introduction request.",
		Description: "A member cannot request an introduction to themselves.",
	}

	LIVE_INTRODUCTION_EXISTS = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "A live introduction already exists for this pair.",
	}

	INVALID_TRANSITION = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Introduction is not in a state that allows this operation.",
	}

	NOT_A_PARTICIPANT = ErrorMessage{
		Code:    errorPrefix + "11010",
		Message: "Actor is not a participant of this introduction.",
	}

	INVALID_SCHEDULE_TIME = ErrorMessage{
		Code:    errorPrefix + "11011",
		Message: "Invalid meeting time.",
	}

	EMPTY_NOTES = ErrorMessage{
		Code:        errorPrefix + "11012",
		Message:     "Invalid meeting notes.",
		Description: "Meeting notes must not be empty.",
	}

	INVALID_LIMIT = ErrorMessage{
		Code:    errorPrefix + "11013",
		Message: "Invalid limit.",
	}

	INVALID_ACTION_TOKEN = ErrorMessage{
		Code:        errorPrefix + "11014",
		Message:     "Invalid action link.",
		Description: "The action link is invalid or has expired.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11015",
		Message:     "Forbidden",
		Description: "You do not have permission to perform this operation.",
	}

	REQUESTER_CANNOT_RESPOND = ErrorMessage{
		Code:        errorPrefix + "11016",
		Message:     "The requester cannot accept or decline their own introduction request.",
		Description: "Only the requested member answers a manual introduction. The requester may cancel it instead.",
	}
)
