package store

import (
	"context"
	"scmsapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoAnnouncements struct {
	coll *mongo.Collection
}

func (s *mongoAnnouncements) Insert(ctx context.Context, announcement *schemas.Announcement) error {
	res, err := s.coll.InsertOne(ctx, announcement)
	if err != nil {
		return err
	}
	announcement.Id = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *mongoAnnouncements) List(ctx context.Context) ([]schemas.Announcement, error) {
	return findAll[schemas.Announcement](ctx, s.coll, bson.M{}, bson.D{{Key: "postAt", Value: -1}})
}

func (s *mongoAnnouncements) Update(ctx context.Context, id string, update *AnnouncementUpdate) (*schemas.Announcement, error) {

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.PostAt != nil {
		set["postAt"] = update.PostAt.UTC()
	}

	return updateById[schemas.Announcement](ctx, s.coll, id, set)

}

func (s *mongoAnnouncements) Delete(ctx context.Context, id string) error {
	return deleteById(ctx, s.coll, id)
}
