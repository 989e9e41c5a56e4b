package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Announcement struct {
	Id        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string        `bson:"title" json:"title"`
	Content   string        `bson:"content" json:"content"`
	PostAt    time.Time     `bson:"postAt" json:"postAt"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
