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

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func printJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func jsonOutput() bool {
	return output == "json"
}

func printSuccess(message string) {
	fmt.Println(color.GreenString("✓ ") + message)
}

func printWarning(message string) {
	fmt.Fprintln(os.Stderr, color.YellowString("! ")+message)
}

func printError(err error) {
	message := err.Error()
	var clientError *errors2.ClientError
	if errors.As(err, &clientError) && clientError.Description != "" {
		message = clientError.Description
	}
	var serverError *errors2.ServerError
	if errors.As(err, &serverError) && serverError.Description != "" {
		message = fmt.Sprintf("%s: %v", serverError.Description, serverError.Err)
	}
	fmt.Fprintln(os.Stderr, color.RedString("✗ ")+message)
}

func activeLabel(active bool) string {
	if active {
		return color.GreenString("active")
	}
	return color.HiBlackString("inactive")
}
