package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Coupon struct {
	Id             bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Code           string        `bson:"code" json:"code"`
	DiscountAmount float64       `bson:"discountAmount" json:"discountAmount"` // percent
	Description    string        `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
}
