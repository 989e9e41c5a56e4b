package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	COLL_USERS         = "users"
	COLL_COURTS        = "courts"
	COLL_BOOKINGS      = "bookings"
	COLL_PAYMENTS      = "payments"
	COLL_COUPONS       = "coupons"
	COLL_ANNOUNCEMENTS = "announcements"

	ROLE_USER   = "user"
	ROLE_MEMBER = "member"
	ROLE_ADMIN  = "admin"

	BOOKING_LOCK_TTL     = 30 * time.Second
	IMAGE_UPLOAD_EXPIRES = 15 * time.Minute
	MAX_REQUEST_BYTES    = 1 << 20
)

type Env struct {
	ENV  string `envconfig:"ENV" default:"dev"`
	PORT string `envconfig:"PORT" default:"5000"`

	MONGO_URI string `envconfig:"MONGO_URI"`
	DB_USER   string `envconfig:"DB_USER"`
	DB_PASS   string `envconfig:"DB_PASS"`
	DB_HOST   string `envconfig:"DB_HOST" default:"cluster0.mongodb.net"`
	MONGO_DB  string `envconfig:"MONGO_DB" default:"sportsDB"`

	REDIS_ADDR     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	REDIS_PASSWORD string `envconfig:"REDIS_PASSWORD"`

	ADMIN_EMAIL    string `envconfig:"ADMIN_EMAIL"`
	ALLOWED_ORIGIN string `envconfig:"ALLOWED_ORIGIN" default:"*"`

	STRIPE_SECRET_KEY     string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	STRIPE_WEBHOOK_SECRET string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	CURRENCY              string `envconfig:"CURRENCY" default:"usd"`

	FIREBASE_CREDENTIALS_FILE string `envconfig:"FIREBASE_CREDENTIALS_FILE" default:"firebase-admin.json"`

	AWS_REGION string `envconfig:"AWS_REGION" default:"us-east-1"`
	SES_SENDER string `envconfig:"SES_SENDER"`

	R2_ACCESS_KEY   string `envconfig:"R2_ACCESS_KEY"`
	R2_SECRET_KEY   string `envconfig:"R2_SECRET_KEY"`
	R2_API_ENDPOINT string `envconfig:"R2_API_ENDPOINT"`
	R2_BUCKET       string `envconfig:"R2_BUCKET" default:"court-images"`
	R2_PUBLIC_URL   string `envconfig:"R2_PUBLIC_URL"`
}

func (e *Env) Prod() bool {
	return e.ENV == "prod"
}

// MongoURI prefers an explicit MONGO_URI and otherwise builds an Atlas SRV uri.
func (e *Env) MongoURI() string {
	if e.MONGO_URI != "" {
		return e.MONGO_URI
	}
	uri := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(e.DB_USER, e.DB_PASS),
		Host:     e.DB_HOST,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return uri.String()
}

func Load() (*Env, error) {

	// .env is optional outside prod
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}

	return &env, nil

}
