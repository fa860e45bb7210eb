package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements the contract on MongoDB. SetIfAbsent relies on
// duplicate-key errors from InsertOne against _id, the same mechanism the
// create-if-absent lock uses everywhere. Expiry is enforced client-side on
// read: Mongo's TTL monitor sweeps roughly once a minute, which is far too
// coarse for a 10-second lock, so the TTL index only garbage-collects.
type MongoStore struct {
	kv    *mongo.Collection
	sets  *mongo.Collection
	lists *mongo.Collection
	db    *mongo.Database
}

type kvDoc struct {
	Key       string     `bson:"_id"`
	Value     string     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

type setDoc struct {
	Key     string   `bson:"_id"`
	Members []string `bson:"members"`
}

type listDoc struct {
	Key   string   `bson:"_id"`
	Items []string `bson:"items"`
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		kv:    db.Collection("kv"),
		sets:  db.Collection("kv_sets"),
		lists: db.Collection("kv_lists"),
		db:    db,
	}
}

// EnsureIndexes creates the TTL index that garbage-collects expired keys.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.kv.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (d *kvDoc) expired(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}

func (s *MongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDoc
	err := s.kv.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if doc.expired(time.Now()) {
		return "", false, nil
	}
	return doc.Value, true, nil
}

func (s *MongoStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	doc := kvDoc{Key: key, Value: value}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		doc.ExpiresAt = &exp
	}
	_, err := s.kv.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	doc := kvDoc{Key: key, Value: value}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		doc.ExpiresAt = &exp
	}

	_, err := s.kv.InsertOne(ctx, doc)
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, err
	}

	// The key exists; if its holder expired, reap it and try once more.
	// The delete filter re-checks expiry so only a stale key is removed.
	res, delErr := s.kv.DeleteOne(ctx, bson.M{
		"_id":        key,
		"expires_at": bson.M{"$lt": time.Now()},
	})
	if delErr != nil {
		return false, delErr
	}
	if res.DeletedCount == 0 {
		return false, nil
	}

	_, err = s.kv.InsertOne(ctx, doc)
	if err == nil {
		return true, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	return false, err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.kv.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoStore) AddToSet(ctx context.Context, key, member string) error {
	_, err := s.sets.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$addToSet": bson.M{"members": member}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) RemoveFromSet(ctx context.Context, key, member string) error {
	_, err := s.sets.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$pull": bson.M{"members": member}},
	)
	return err
}

func (s *MongoStore) MembersOf(ctx context.Context, key string) ([]string, error) {
	var doc setDoc
	err := s.sets.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Members, nil
}

func (s *MongoStore) PushToList(ctx context.Context, key, value string) error {
	_, err := s.lists.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$push": bson.M{"items": bson.M{"$each": bson.A{value}, "$position": 0}}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) ListRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	var doc listDoc
	err := s.lists.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sliceRange(doc.Items, start, stop), nil
}

func (s *MongoStore) RemoveFromList(ctx context.Context, key, value string) error {
	_, err := s.lists.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$pull": bson.M{"items": value}},
	)
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// sliceRange applies Redis LRANGE semantics (inclusive stop, negative
// indexes count from the end) to a plain slice.
func sliceRange(items []string, start, stop int64) []string {
	n := int64(len(items))
	if n == 0 {
		return nil
	}
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return nil
	}
	return items[start : stop+1]
}
