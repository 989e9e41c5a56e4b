package main

import (
	"context"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/api/announcement"
	"scmsapi/internal/api/booking"
	"scmsapi/internal/api/coupon"
	"scmsapi/internal/api/court"
	"scmsapi/internal/api/payment"
	"scmsapi/internal/api/stats"
	"scmsapi/internal/api/user"
	"scmsapi/internal/identity"
	"scmsapi/internal/store"
	bookingutils "scmsapi/pkg/booking_utils"
	"scmsapi/pkg/config"
	"scmsapi/pkg/utils"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {

	ctx := context.Background()
	h := &api.Handler{}

	env, err := config.Load()
	if err != nil {
		panic(err)
	}

	// init logger
	var logger *zap.Logger
	if env.Prod() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment(
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		)
	}
	if err != nil {
		panic(err)
	}
	logger.Info("Server starting...")
	defer logger.Sync()
	h.Logger = logger

	// init validator
	h.Validate = bookingutils.NewValidator()

	// init mongo
	mongoServerAPI := options.ServerAPI(options.ServerAPIVersion1)
	mongoOpts := options.Client().ApplyURI(env.MongoURI()).SetServerAPIOptions(mongoServerAPI)
	mongoCli, err := mongo.Connect(mongoOpts)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer func() {
		if err = mongoCli.Disconnect(ctx); err != nil {
			logger.Error("mongo disconnect", zap.Error(err))
		}
	}()
	if err := mongoCli.Ping(ctx, readpref.Primary()); err != nil {
		logger.Fatal("mongo ping", zap.Error(err))
	}
	mongoDB := mongoCli.Database(env.MONGO_DB)
	if err := store.EnsureIndexes(ctx, mongoDB); err != nil {
		logger.Fatal("mongo indexes", zap.Error(err))
	}
	h.Store = store.NewMongo(mongoDB)

	// seed the configured administrator
	if env.ADMIN_EMAIL != "" {
		if err := h.Store.Users.EnsureRole(ctx, env.ADMIN_EMAIL, config.ROLE_ADMIN); err != nil {
			logger.Fatal("seed admin", zap.Error(err))
		}
	}

	// init redis
	redisCli := redis.NewClient(&redis.Options{
		Addr:     env.REDIS_ADDR,
		Password: env.REDIS_PASSWORD,
		DB:       0,
	})
	h.Locker = &utils.RedisLocker{RedisCli: redisCli, TTL: config.BOOKING_LOCK_TTL}

	// init aws ses, mail is optional
	if env.SES_SENDER != "" {
		sesCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(env.AWS_REGION))
		if err != nil {
			logger.Fatal("aws config", zap.Error(err))
		}
		h.Notifier = &utils.SESNotifier{SESCli: ses.NewFromConfig(sesCfg), Sender: env.SES_SENDER}
	}

	// init r2, court image uploads are optional
	if env.R2_API_ENDPOINT != "" {
		cred := credentials.NewStaticCredentialsProvider(
			env.R2_ACCESS_KEY,
			env.R2_SECRET_KEY,
			"",
		)
		r2Cli := s3.New(s3.Options{
			Credentials:  cred,
			BaseEndpoint: aws.String(env.R2_API_ENDPOINT),
			UsePathStyle: true,
			Region:       "auto",
		})
		h.Images = &utils.R2Uploader{
			R2Cli:     r2Cli,
			Bucket:    env.R2_BUCKET,
			PublicURL: env.R2_PUBLIC_URL,
			Expires:   config.IMAGE_UPLOAD_EXPIRES,
		}
	}

	// init stripe
	h.Payments = &utils.StripeProcessor{
		StripeCli:     stripe.NewClient(env.STRIPE_SECRET_KEY),
		WebhookSecret: env.STRIPE_WEBHOOK_SECRET,
	}
	h.Currency = env.CURRENCY

	// init firebase
	h.Verifier, err = identity.NewFirebaseVerifier(ctx, env.FIREBASE_CREDENTIALS_FILE)
	if err != nil {
		logger.Fatal("firebase", zap.Error(err))
	}

	router := chi.NewRouter()

	// Middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{env.ALLOWED_ORIGIN},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestSize(config.MAX_REQUEST_BYTES))

	mountRoutes(router, h)

	srv := &http.Server{
		Addr:              ":" + env.PORT,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("Server running", zap.String("port", env.PORT))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}

}

func mountRoutes(router chi.Router, h *api.Handler) {

	userH := &user.Handler{Handler: h}
	courtH := &court.Handler{Handler: h}
	bookingH := &booking.Handler{Handler: h}
	couponH := &coupon.Handler{Handler: h}
	announcementH := &announcement.Handler{Handler: h}
	paymentH := &payment.Handler{Handler: h}
	statsH := &stats.Handler{Handler: h}

	auth := h.AuthMiddleware
	admin := func(f http.HandlerFunc) http.HandlerFunc {
		return h.AuthMiddleware(h.AdminOnly(f))
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Sports club server is running"))
	})

	// user endpoints
	router.Post("/users", auth(userH.Register))
	router.Get("/users", auth(userH.ListUsers))
	router.Get("/users/{email}", auth(userH.GetUser))
	router.Get("/users/{email}/role", auth(userH.GetUserRole))
	router.Patch("/users/{email}", admin(userH.UpdateUser))
	router.Delete("/users/{id}", admin(userH.DeleteUser))
	router.Get("/members", admin(userH.ListMembers))
	router.Delete("/members/{id}", admin(userH.DeleteUser))

	// court endpoints
	router.Get("/courts", courtH.ListCourts)
	router.Get("/courts/count", courtH.CountCourts)
	router.Get("/courts/{id}", courtH.GetCourt)
	router.Post("/courts", admin(courtH.CreateCourt))
	router.Post("/courts/image-upload", admin(courtH.ImageUpload))
	router.Patch("/courts/{id}", admin(courtH.UpdateCourt))
	router.Delete("/courts/{id}", admin(courtH.DeleteCourt))

	// booking endpoints
	router.Post("/bookings", auth(bookingH.CreateBooking))
	router.Get("/bookings", auth(bookingH.ListBookings))
	router.Get("/bookings/summary", auth(bookingH.BookingSummary))
	router.Get("/bookings/{id}", auth(bookingH.GetBooking))
	router.Patch("/bookings/{id}", admin(bookingH.UpdateStatus))
	router.Post("/bookings/{id}/approve", admin(bookingH.Approve))
	router.Post("/bookings/{id}/reject", admin(bookingH.Reject))
	router.Delete("/bookings/{id}", auth(bookingH.DeleteBooking))

	// coupon endpoints
	router.Get("/coupons", couponH.ListCoupons)
	router.Post("/coupons", admin(couponH.CreateCoupon))
	router.Patch("/coupons/{id}", admin(couponH.UpdateCoupon))
	router.Delete("/coupons/{id}", admin(couponH.DeleteCoupon))
	router.Post("/validate-coupon", auth(couponH.ValidateCoupon))

	// payment endpoints
	router.Post("/create-payment-intent", auth(paymentH.CreatePaymentIntent))
	router.Post("/payments", auth(paymentH.RecordPayment))
	router.Get("/payments", auth(paymentH.ListPayments))
	router.Get("/payments/summary", auth(paymentH.PaymentSummary))
	router.Post("/stripe/webhook", paymentH.StripeWebhook)

	// announcement endpoints
	router.Get("/announcements", auth(announcementH.ListAnnouncements))
	router.Post("/announcements", admin(announcementH.CreateAnnouncement))
	router.Patch("/announcements/{id}", admin(announcementH.UpdateAnnouncement))
	router.Delete("/announcements/{id}", admin(announcementH.DeleteAnnouncement))

	// admin endpoints
	router.Get("/admin/stats", admin(statsH.AdminStats))
	router.Get("/admin-stats", admin(statsH.AdminStats))

}
