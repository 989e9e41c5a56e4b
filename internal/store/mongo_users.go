package store

import (
	"context"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoUsers struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*schemas.User, error) {
	var user schemas.User
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *mongoUsers) InsertIfAbsent(ctx context.Context, user *schemas.User) (bool, error) {

	// unique index by email
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}

	user.Id = res.InsertedID.(bson.ObjectID)
	return true, nil

}

// an exact email wins over search
func userQuery(filter UserFilter) bson.M {
	query := bson.M{}
	if filter.Email != "" {
		query["email"] = filter.Email
	} else if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"name": containsFold(filter.Search)},
			bson.M{"email": containsFold(filter.Search)},
		}
	}
	return query
}

func (s *mongoUsers) List(ctx context.Context, filter UserFilter) ([]schemas.User, error) {
	return findAll[schemas.User](ctx, s.coll, userQuery(filter), bson.D{{Key: "createdAt", Value: -1}})
}

func memberQuery(search string) bson.M {
	query := bson.M{"role": config.ROLE_MEMBER}
	if search != "" {
		query["name"] = containsFold(search)
	}
	return query
}

func (s *mongoUsers) ListMembers(ctx context.Context, search string) ([]schemas.User, error) {
	return findAll[schemas.User](ctx, s.coll, memberQuery(search), bson.D{{Key: "memberSince", Value: -1}})
}

// userUpdateSet builds the $set stage of a pipeline update so memberSince can
// depend on the stored value. User supplied values go through $literal.
func userUpdateSet(update *UserUpdate, now time.Time) bson.M {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = bson.M{"$literal": *update.Name}
	}
	if update.PhotoURL != nil {
		set["photoURL"] = bson.M{"$literal": *update.PhotoURL}
	}
	if update.Role != nil {
		set["role"] = bson.M{"$literal": *update.Role}
		switch *update.Role {
		case config.ROLE_MEMBER:
			set["isMember"] = true
			set["memberSince"] = bson.M{"$ifNull": bson.A{"$memberSince", now}}
		case config.ROLE_USER:
			set["isMember"] = false
			set["memberSince"] = "$$REMOVE"
		}
	}
	return set
}

func (s *mongoUsers) UpdateByEmail(ctx context.Context, email string, update *UserUpdate) (*schemas.User, error) {

	var user schemas.User
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		mongo.Pipeline{{{Key: "$set", Value: userUpdateSet(update, time.Now().UTC())}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil

}

func (s *mongoUsers) EnsureRole(ctx context.Context, email string, role string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set":         bson.M{"role": role},
			"$setOnInsert": bson.M{"name": "", "isMember": false, "createdAt": time.Now().UTC()},
		},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *mongoUsers) DeleteById(ctx context.Context, id string) error {
	return deleteById(ctx, s.coll, id)
}

func (s *mongoUsers) Count(ctx context.Context, role string) (int64, error) {
	if role == "" {
		return s.coll.EstimatedDocumentCount(ctx)
	}
	return s.coll.CountDocuments(ctx, bson.M{"role": role})
}

// promote upserts the booking owner as a member. Admins keep their role and an
// existing memberSince is preserved.
func promote(ctx context.Context, coll *mongo.Collection, email string, now time.Time) (*schemas.User, error) {

	var user schemas.User
	err := coll.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		mongo.Pipeline{{{Key: "$set", Value: bson.M{
			"role": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$role", config.ROLE_ADMIN}},
				config.ROLE_ADMIN,
				config.ROLE_MEMBER,
			}},
			"isMember":    true,
			"memberSince": bson.M{"$ifNull": bson.A{"$memberSince", now}},
			"createdAt":   bson.M{"$ifNull": bson.A{"$createdAt", now}},
			"name":        bson.M{"$ifNull": bson.A{"$name", ""}},
		}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil

}
