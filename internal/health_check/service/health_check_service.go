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

package service

import (
	"context"
	"errors"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/health_check/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/workers"
)

const probeTimeout = 3 * time.Second

// Probe checks one component and returns nil when it can serve.
type Probe func(ctx context.Context) error

type namedProbe struct {
	name  string
	probe Probe
}

// HealthCheckServiceInterface reports whether the server can take traffic.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) model.HealthReport
}

type HealthCheckService struct {
	probes []namedProbe
}

// GetHealthCheckService probes the datasource and the notification worker.
func GetHealthCheckService() HealthCheckServiceInterface {
	return NewHealthCheckService().
		WithProbe("datasource", datasourceProbe).
		WithProbe("notification_worker", notificationWorkerProbe)
}

func NewHealthCheckService() *HealthCheckService {
	return &HealthCheckService{}
}

// WithProbe appends a named probe. Probes run in the order they were added.
func (s *HealthCheckService) WithProbe(name string, probe Probe) *HealthCheckService {
	s.probes = append(s.probes, namedProbe{name: name, probe: probe})
	return s
}

func (s *HealthCheckService) CheckReadiness(ctx context.Context) model.HealthReport {

	report := model.HealthReport{Status: model.StatusUp}
	for _, p := range s.probes {
		component := model.ComponentHealth{Name: p.name, Status: model.StatusUp}
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := p.probe(probeCtx)
		cancel()
		if err != nil {
			component.Status = model.StatusDown
			component.Error = err.Error()
			report.Status = model.StatusDown
			log.GetLogger().Warn("Readiness probe failed", log.String("component", p.name), log.Error(err))
		}
		report.Components = append(report.Components, component)
	}
	return report
}

func datasourceProbe(ctx context.Context) error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return err
	}
	_, err = dbClient.ExecuteQueryContext(ctx, "SELECT 1")
	return err
}

func notificationWorkerProbe(context.Context) error {
	if !workers.NotificationWorkerRunning() {
		return errors.New("notification worker is not running")
	}
	return nil
}
