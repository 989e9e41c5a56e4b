package store

import (
	"context"
	"scmsapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoCoupons struct {
	coll *mongo.Collection
}

func (s *mongoCoupons) Insert(ctx context.Context, coupon *schemas.Coupon) error {
	res, err := s.coll.InsertOne(ctx, coupon)
	if err != nil {
		return mapErr(err)
	}
	coupon.Id = res.InsertedID.(bson.ObjectID)
	return nil
}

// FindByCode is an exact, case-sensitive match.
func (s *mongoCoupons) FindByCode(ctx context.Context, code string) (*schemas.Coupon, error) {
	var coupon schemas.Coupon
	if err := s.coll.FindOne(ctx, bson.M{"code": code}).Decode(&coupon); err != nil {
		return nil, mapErr(err)
	}
	return &coupon, nil
}

func (s *mongoCoupons) List(ctx context.Context) ([]schemas.Coupon, error) {
	return findAll[schemas.Coupon](ctx, s.coll, bson.M{}, bson.D{{Key: "createdAt", Value: -1}})
}

func (s *mongoCoupons) Update(ctx context.Context, id string, update *CouponUpdate) (*schemas.Coupon, error) {

	set := bson.M{}
	if update.Code != nil {
		set["code"] = *update.Code
	}
	if update.DiscountAmount != nil {
		set["discountAmount"] = *update.DiscountAmount
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}

	return updateById[schemas.Coupon](ctx, s.coll, id, set)

}

func (s *mongoCoupons) Delete(ctx context.Context, id string) error {
	return deleteById(ctx, s.coll, id)
}
