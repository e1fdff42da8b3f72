package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// Collection names.
const (
	SessionCollection   = "interview_sessions"
	ScorecardCollection = "scorecards"
)

// MongoStore keeps one document per session and per scorecard. The sealed
// session JSON is stored verbatim in the data field so the transcript digest
// survives the round trip; id, candidate and phase are lifted out for queries.
type MongoStore struct {
	client     *mongo.Client
	sessions   *mongo.Collection
	scorecards *mongo.Collection
	now        func() time.Time
}

var _ Store = (*MongoStore)(nil)

// OpenMongo connects to uri and verifies the server with a ping.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStore(client, database), nil
}

// NewMongoStore wraps an already connected client.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:     client,
		sessions:   db.Collection(SessionCollection),
		scorecards: db.Collection(ScorecardCollection),
		now:        time.Now,
	}
}

type blobDocument struct {
	Data string `bson:"data"`
}

func sessionDocument(s state.SessionState, data []byte, now time.Time) bson.M {
	return bson.M{
		"_id":        s.ID,
		"candidate":  s.Candidate,
		"phase":      string(s.Phase),
		"answered":   s.Answered(),
		"data":       string(data),
		"updated_at": now.UTC(),
	}
}

func scorecardDocument(card scorecard.Scorecard, data []byte) bson.M {
	return bson.M{
		"_id":            card.SessionID,
		"candidate":      card.Candidate,
		"overall_score":  card.OverallScore,
		"tab_violations": card.TabViolations,
		"data":           string(data),
	}
}

func byID(id string) bson.M {
	return bson.M{"_id": id}
}

func (m *MongoStore) SaveSession(ctx context.Context, s state.SessionState) error {
	now := m.now()
	data, err := encodeSession(s, now)
	if err != nil {
		return err
	}
	_, err = m.sessions.ReplaceOne(ctx, byID(s.ID), sessionDocument(s, data, now), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *MongoStore) LoadSession(ctx context.Context, id string) (state.SessionState, error) {
	var doc blobDocument
	if err := m.sessions.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return state.SessionState{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return state.SessionState{}, fmt.Errorf("load session: %w", err)
	}
	return decodeSession([]byte(doc.Data))
}

func (m *MongoStore) SaveScorecard(ctx context.Context, card scorecard.Scorecard) error {
	data, err := encodeScorecard(card)
	if err != nil {
		return err
	}
	_, err = m.scorecards.ReplaceOne(ctx, byID(card.SessionID), scorecardDocument(card, data), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save scorecard: %w", err)
	}
	return nil
}

func (m *MongoStore) LoadScorecard(ctx context.Context, id string) (scorecard.Scorecard, error) {
	var doc blobDocument
	if err := m.scorecards.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return scorecard.Scorecard{}, fmt.Errorf("scorecard %s: %w", id, ErrNotFound)
		}
		return scorecard.Scorecard{}, fmt.Errorf("load scorecard: %w", err)
	}
	return decodeScorecard([]byte(doc.Data))
}

func (m *MongoStore) ListSessions(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.sessions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode session id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
