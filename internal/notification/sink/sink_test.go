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
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	intromodel "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_PublishesJSONKeyedByIntroduction(t *testing.T) {
	writer := &recordingWriter{}
	kafkaSink := &KafkaSink{writer: writer, topic: "introductions"}
	occurred := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	err := kafkaSink.Deliver(context.Background(), model.Event{
		EventId:      "e1",
		Type:         model.TypeIntroductionCreated,
		Event:        string(intromodel.EventSuggested),
		RecipientId:  "m1",
		Introduction: intromodel.Introduction{IntroductionId: "i1", MemberLowId: "m1", MemberHighId: "m2"},
		OccurredAt:   occurred,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	message := writer.messages[0]
	assert.Equal(t, "i1", string(message.Key))
	assert.Equal(t, occurred, message.Time)
	assert.Equal(t, model.TypeIntroductionCreated, string(message.Headers[0].Value))

	var decoded model.Event
	require.NoError(t, json.Unmarshal(message.Value, &decoded))
	assert.Equal(t, "m1", decoded.RecipientId)
	assert.Equal(t, "m2", decoded.Introduction.MemberHighId)

	require.NoError(t, kafkaSink.Close())
	assert.True(t, writer.closed)
}

func TestKafkaSink_ReturnsWriterErrors(t *testing.T) {
	kafkaSink := &KafkaSink{writer: &recordingWriter{err: errors.New("broker down")}, topic: "introductions"}
	err := kafkaSink.Deliver(context.Background(), model.Event{EventId: "e1"})
	assert.EqualError(t, err, "broker down")
}
