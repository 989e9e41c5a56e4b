package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const PaymentPaid = "paid"

type Payment struct {
	Id              bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	BookingId       string        `bson:"bookingId" json:"bookingId"`
	UserEmail       string        `bson:"userEmail" json:"userEmail"`
	Price           float64       `bson:"price" json:"price"`
	Status          string        `bson:"status" json:"status"`
	PaymentIntentId string        `bson:"paymentIntentId" json:"paymentIntentId"`
	CouponCode      string        `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
}
