package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Court struct {
	Id        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Image     string        `bson:"image" json:"image"`
	Type      string        `bson:"type" json:"type"`
	Title     string        `bson:"title" json:"title"`
	Slots     []string      `bson:"slots" json:"slots"`
	Price     float64       `bson:"price" json:"price"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
