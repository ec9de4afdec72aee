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

package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

const produceTimeout = 10 * time.Second

// Sink delivers notification events to the outside world.
type Sink interface {
	Deliver(ctx context.Context, event model.Event) error
	Close() error
}

// NewSinkFromConfig returns the sink selected by notification.type.
func NewSinkFromConfig() (Sink, error) {

	notification := config.GetRuntime().Config.Notification
	switch notification.Type {
	case constants.KafkaNotifier:
		if len(notification.Brokers) == 0 || notification.Topic == "" {
			return nil, fmt.Errorf("kafka notifier requires brokers and a topic")
		}
		return NewKafkaSink(notification.Brokers, notification.Topic), nil
	case constants.LogNotifier, "":
		return NewLogSink(), nil
	default:
		return nil, fmt.Errorf("unsupported notification type: %s", notification.Type)
	}
}

// LogSink writes events to the application log. Used when no broker is configured.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Deliver(ctx context.Context, event model.Event) error {
	log.GetLogger().Info("Notification",
		log.String("event_id", event.EventId),
		log.String("type", event.Type),
		log.String("event", event.Event),
		log.String("introduction_id", event.Introduction.IntroductionId),
		log.String("recipient_id", event.RecipientId),
		log.Int("links", len(event.Links)))
	return nil
}

func (s *LogSink) Close() error {
	return nil
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON to a Kafka topic, keyed by introduction id.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		topic: topic,
	}
}

func (s *KafkaSink) Deliver(ctx context.Context, event model.Event) error {

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode notification %s: %w", event.EventId, err)
	}
	writeCtx, cancel := context.WithTimeout(ctx, produceTimeout)
	defer cancel()
	return s.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(event.Key()),
		Value:   value,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
		Time:    event.OccurredAt,
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
