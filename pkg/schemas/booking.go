package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingConfirmed = "confirmed"
)

type Booking struct {
	Id              bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserEmail       string        `bson:"userEmail" json:"userEmail"`
	UserId          string        `bson:"userId,omitempty" json:"userId,omitempty"`
	CourtId         string        `bson:"courtId" json:"courtId"`
	CourtTitle      string        `bson:"courtTitle" json:"courtTitle"`
	CourtType       string        `bson:"courtType" json:"courtType"`
	Date            string        `bson:"date" json:"date"`
	Slots           []string      `bson:"slots" json:"slots"`
	Price           float64       `bson:"price" json:"price"`
	DiscountedPrice *float64      `bson:"discountedPrice,omitempty" json:"discountedPrice,omitempty"`
	Status          string        `bson:"status" json:"status"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
}
