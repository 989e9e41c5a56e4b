package store

import (
	"context"
	"errors"
	"fmt"
	bookingutils "scmsapi/pkg/booking_utils"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoBookings struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func (s *mongoBookings) Insert(ctx context.Context, booking *schemas.Booking) error {
	res, err := s.coll.InsertOne(ctx, booking)
	if err != nil {
		return err
	}
	booking.Id = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *mongoBookings) FindById(ctx context.Context, id string) (*schemas.Booking, error) {

	oid, err := objectId(id)
	if err != nil {
		return nil, err
	}

	var booking schemas.Booking
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking); err != nil {
		return nil, mapErr(err)
	}
	return &booking, nil

}

func bookingQuery(filter BookingFilter) bson.M {
	query := bson.M{}
	if filter.UserEmail != "" {
		query["userEmail"] = filter.UserEmail
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		query["courtTitle"] = containsFold(filter.Search)
	}
	return query
}

func (s *mongoBookings) List(ctx context.Context, filter BookingFilter) ([]schemas.Booking, error) {
	return findAll[schemas.Booking](ctx, s.coll, bookingQuery(filter), bson.D{
		{Key: "date", Value: -1},
		{Key: "createdAt", Value: -1},
	})
}

func (s *mongoBookings) CountByStatus(ctx context.Context, userEmail string) (map[string]int64, error) {

	match := bson.M{}
	if userEmail != "" {
		match["userEmail"] = userEmail
	}

	cursor, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := map[string]int64{
		schemas.BookingPending:   0,
		schemas.BookingApproved:  0,
		schemas.BookingRejected:  0,
		schemas.BookingConfirmed: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil

}

func (s *mongoBookings) Delete(ctx context.Context, id string) error {
	return deleteById(ctx, s.coll, id)
}

func (s *mongoBookings) Count(ctx context.Context) (int64, error) {
	return s.coll.EstimatedDocumentCount(ctx)
}

// transition updates a booking only while it is still pending. A miss is
// resolved into not found or an invalid transition.
func (s *mongoBookings) transition(ctx context.Context, oid bson.ObjectID, set bson.M) (*schemas.Booking, error) {

	var booking schemas.Booking
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": schemas.BookingPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	var current schemas.Booking
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&current); err != nil {
		return nil, mapErr(err)
	}
	return nil, bookingutils.CheckTransition(current.Status, set["status"].(string))

}

func (s *mongoBookings) Approve(ctx context.Context, id string, discountedPrice *float64, now time.Time) (*schemas.Booking, *schemas.User, error) {

	oid, err := objectId(id)
	if err != nil {
		return nil, nil, err
	}

	set := bson.M{"status": schemas.BookingApproved}
	if discountedPrice != nil {
		set["discountedPrice"] = *discountedPrice
	}

	var booking *schemas.Booking
	var user *schemas.User
	err = withTransaction(ctx, s.db, func(txCtx context.Context) error {

		var err error
		booking, err = s.transition(txCtx, oid, set)
		if err != nil {
			return err
		}

		user, err = promote(txCtx, s.db.Collection(config.COLL_USERS), booking.UserEmail, now)
		if err != nil {
			return fmt.Errorf("promoting %s: %w", booking.UserEmail, err)
		}

		return nil

	})
	if err != nil {
		return nil, nil, err
	}

	return booking, user, nil

}

func (s *mongoBookings) Reject(ctx context.Context, id string) (*schemas.Booking, error) {

	oid, err := objectId(id)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, oid, bson.M{"status": schemas.BookingRejected})

}
