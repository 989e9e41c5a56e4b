package store

import (
	"context"
	"errors"
	"regexp"
	"scmsapi/pkg/config"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"
)

func NewMongo(db *mongo.Database) *Store {
	return &Store{
		Users:         &mongoUsers{db: db, coll: db.Collection(config.COLL_USERS)},
		Courts:        &mongoCourts{coll: db.Collection(config.COLL_COURTS)},
		Bookings:      &mongoBookings{db: db, coll: db.Collection(config.COLL_BOOKINGS)},
		Payments:      &mongoPayments{db: db, coll: db.Collection(config.COLL_PAYMENTS)},
		Coupons:       &mongoCoupons{coll: db.Collection(config.COLL_COUPONS)},
		Announcements: &mongoAnnouncements{coll: db.Collection(config.COLL_ANNOUNCEMENTS)},
	}
}

// EnsureIndexes creates the unique keys the handlers rely on for conflict detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {

	unique := []struct {
		coll  string
		field string
	}{
		{config.COLL_USERS, "email"},
		{config.COLL_COUPONS, "code"},
		{config.COLL_PAYMENTS, "paymentIntentId"},
	}
	for _, u := range unique {
		_, err := db.Collection(u.coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: u.field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return err
		}
	}

	_, err := db.Collection(config.COLL_BOOKINGS).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err

}

func objectId(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// an id that cannot exist is reported like one that does not
		return bson.ObjectID{}, ErrNotFound
	}
	return oid, nil
}

func containsFold(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, sort bson.D) ([]T, error) {

	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil

}

func updateById[T any](ctx context.Context, coll *mongo.Collection, id string, set bson.M) (*T, error) {

	oid, err := objectId(id)
	if err != nil {
		return nil, err
	}

	var doc T
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return &doc, nil

}

func deleteById(ctx context.Context, coll *mongo.Collection, id string) error {

	oid, err := objectId(id)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil

}

func withTransaction(ctx context.Context, db *mongo.Database, fn func(txCtx context.Context) error) error {

	txSession, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer txSession.EndSession(ctx)
	txOpts := options.Transaction().SetReadConcern(readconcern.Snapshot()).SetWriteConcern(writeconcern.Majority())

	_, err = txSession.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		return nil, fn(txCtx)
	}, txOpts)
	return err

}
