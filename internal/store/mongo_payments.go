package store

import (
	"context"
	"errors"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoPayments struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func (s *mongoPayments) Record(ctx context.Context, payment *schemas.Payment) (*schemas.Payment, bool, error) {

	bookingOid, err := objectId(payment.BookingId)
	if err != nil {
		return nil, false, err
	}

	var recorded schemas.Payment
	var created bool
	err = withTransaction(ctx, s.db, func(txCtx context.Context) error {

		// same intent recorded before (client call and webhook both land here)
		err := s.coll.FindOne(txCtx, bson.M{"paymentIntentId": payment.PaymentIntentId}).Decode(&recorded)
		if errors.Is(err, mongo.ErrNoDocuments) {
			res, err := s.coll.InsertOne(txCtx, payment)
			if err != nil {
				return err
			}
			recorded = *payment
			recorded.Id = res.InsertedID.(bson.ObjectID)
			created = true
		} else if err != nil {
			return err
		}

		res, err := s.db.Collection(config.COLL_BOOKINGS).UpdateOne(txCtx,
			bson.M{"_id": bookingOid},
			bson.M{"$set": bson.M{"status": schemas.BookingConfirmed}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}

		return nil

	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// lost a race with a concurrent recording of the same intent
			if err := s.coll.FindOne(ctx, bson.M{"paymentIntentId": payment.PaymentIntentId}).Decode(&recorded); err != nil {
				return nil, false, mapErr(err)
			}
			return &recorded, false, nil
		}
		return nil, false, err
	}

	payment.Id = recorded.Id
	return &recorded, created, nil

}

func paymentQuery(filter PaymentFilter) bson.M {
	query := bson.M{}
	if filter.UserEmail != "" {
		query["userEmail"] = filter.UserEmail
	}
	return query
}

func (s *mongoPayments) List(ctx context.Context, filter PaymentFilter) ([]schemas.Payment, error) {
	return findAll[schemas.Payment](ctx, s.coll, paymentQuery(filter), bson.D{{Key: "createdAt", Value: -1}})
}

func (s *mongoPayments) Total(ctx context.Context, filter PaymentFilter) (float64, int64, error) {

	cursor, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: paymentQuery(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$price"},
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return 0, 0, err
	}

	var rows []struct {
		Total float64 `bson:"total"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Total, rows[0].Count, nil

}

func (s *mongoPayments) Count(ctx context.Context) (int64, error) {
	return s.coll.EstimatedDocumentCount(ctx)
}
