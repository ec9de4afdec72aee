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

package setup

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/client"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/scripts"
	_ "modernc.org/sqlite"
)

// SetupSqliteTestDB opens a private in-memory sqlite database, applies the schema and installs it
// as the shared pool. The database is closed when the test ends.
func SetupSqliteTestDB(t testing.TB) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.New().String())
	db, err := sql.Open(constants.SqliteDBType, dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := client.NewDBClient(db).InitSchema(scripts.Schema); err != nil {
		_ = db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}
	provider.SetTestDB(db, constants.SqliteDBType)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// ApplySchema creates the nexus tables on db.
func ApplySchema(db *sql.DB) error {
	return client.NewDBClient(db).InitSchema(scripts.Schema)
}
