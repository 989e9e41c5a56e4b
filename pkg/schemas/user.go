package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	Id          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email       string        `bson:"email" json:"email"`
	Name        string        `bson:"name" json:"name"`
	PhotoURL    string        `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role        string        `bson:"role" json:"role"`
	IsMember    bool          `bson:"isMember" json:"isMember"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	MemberSince *time.Time    `bson:"memberSince,omitempty" json:"memberSince,omitempty"`
}
