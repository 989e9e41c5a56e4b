package store

import (
	"context"
	"scmsapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoCourts struct {
	coll *mongo.Collection
}

func (s *mongoCourts) Insert(ctx context.Context, court *schemas.Court) error {
	res, err := s.coll.InsertOne(ctx, court)
	if err != nil {
		return err
	}
	court.Id = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *mongoCourts) FindById(ctx context.Context, id string) (*schemas.Court, error) {

	oid, err := objectId(id)
	if err != nil {
		return nil, err
	}

	var court schemas.Court
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&court); err != nil {
		return nil, mapErr(err)
	}
	return &court, nil

}

func (s *mongoCourts) List(ctx context.Context) ([]schemas.Court, error) {
	return findAll[schemas.Court](ctx, s.coll, bson.M{}, bson.D{{Key: "createdAt", Value: -1}})
}

func (s *mongoCourts) Update(ctx context.Context, id string, update *CourtUpdate) (*schemas.Court, error) {

	set := bson.M{}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Slots != nil {
		set["slots"] = *update.Slots
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}

	return updateById[schemas.Court](ctx, s.coll, id, set)

}

func (s *mongoCourts) Delete(ctx context.Context, id string) error {
	return deleteById(ctx, s.coll, id)
}

func (s *mongoCourts) Count(ctx context.Context) (int64, error) {
	return s.coll.EstimatedDocumentCount(ctx)
}
