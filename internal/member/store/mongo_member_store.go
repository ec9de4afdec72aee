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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 10 * time.Second

var (
	mongoClient     *mongo.Client
	mongoClientErr  error
	mongoClientOnce sync.Once
)

// MongoMemberStore reads members from a MongoDB collection. The shared client is connected on first use.
type MongoMemberStore struct {
	collection *mongo.Collection
}

func NewMongoMemberStore() MemberStoreInterface {
	return &MongoMemberStore{}
}

// NewMongoMemberStoreWithCollection binds the store to an explicit collection.
func NewMongoMemberStoreWithCollection(collection *mongo.Collection) *MongoMemberStore {
	return &MongoMemberStore{collection: collection}
}

func (s *MongoMemberStore) getCollection(ctx context.Context) (*mongo.Collection, error) {

	if s.collection != nil {
		return s.collection, nil
	}
	directory := config.GetRuntime().Config.MemberDirectory
	mongoClientOnce.Do(func() {
		connectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mongoTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(directory.MongoURI))
		if err != nil {
			mongoClientErr = err
			return
		}
		// Ping to ensure connection is live
		if err := client.Ping(connectCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			mongoClientErr = err
			return
		}
		mongoClient = client
		log.GetLogger().Info("Connected to the MongoDB member directory",
			log.String("database", directory.MongoDatabase))
	})
	if mongoClientErr != nil {
		errorMsg := "Failed to connect to the MongoDB member directory"
		log.GetLogger().Debug(errorMsg, log.Error(mongoClientErr))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, mongoClientErr)
	}
	name := directory.MongoCollection
	if name == "" {
		name = "members"
	}
	return mongoClient.Database(directory.MongoDatabase).Collection(name), nil
}

// DisconnectMongo closes the shared client, if any.
func DisconnectMongo(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	return mongoClient.Disconnect(ctx)
}

func (s *MongoMemberStore) ListMembersByStatus(ctx context.Context, status string) ([]model.Member, error) {

	collection, err := s.getCollection(ctx)
	if err != nil {
		return nil, err
	}
	logger := log.GetLogger()
	findOptions := options.Find().SetSort(bson.D{{Key: "member_id", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"status": status}, findOptions)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching %s members from MongoDB", status)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEMBERS.Code,
			Message:     errors2.FETCH_MEMBERS.Message,
			Description: errorMsg,
		}, err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.Debug("Error occurred while closing cursor.", log.Error(err))
		}
	}(cursor, ctx)

	var members []model.Member
	if err = cursor.All(ctx, &members); err != nil {
		errorMsg := fmt.Sprintf("Failed in decoding %s members from MongoDB", status)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEMBERS.Code,
			Message:     errors2.FETCH_MEMBERS.Message,
			Description: errorMsg,
		}, err)
	}
	if members == nil {
		members = []model.Member{}
	}
	return members, nil
}

func (s *MongoMemberStore) GetMember(ctx context.Context, memberId string) (*model.Member, error) {

	collection, err := s.getCollection(ctx)
	if err != nil {
		return nil, err
	}
	var member model.Member
	err = collection.FindOne(ctx, bson.M{"member_id": memberId}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching member %s from MongoDB", memberId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEMBERS.Code,
			Message:     errors2.FETCH_MEMBERS.Message,
			Description: errorMsg,
		}, err)
	}
	return &member, nil
}

func (s *MongoMemberStore) UpsertMember(ctx context.Context, member model.Member) error {

	collection, err := s.getCollection(ctx)
	if err != nil {
		return err
	}
	_, err = collection.ReplaceOne(ctx, bson.M{"member_id": member.MemberId}, member,
		options.Replace().SetUpsert(true))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in saving member %s to MongoDB", member.MemberId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.EXECUTE_QUERY.Code,
			Message:     errors2.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}
