package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"saas-api/config"
	"saas-api/database"
	"saas-api/internal/app/deps"
	routes "saas-api/internal/app/http"
	"saas-api/internal/app/http/middleware"
	"saas-api/internal/domain/plans"
	"saas-api/internal/infra/events"
	"saas-api/internal/infra/lock"
	"saas-api/internal/infra/mail"
	"saas-api/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := bootstrap(); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Get()

	database.InitDB(config.DB_DRIVER, config.DB_URL)
	stripe.Key = config.STRIPE_SECRET_KEY

	if err := wireDeps(); err != nil {
		return err
	}
	defer deps.Events.Close()

	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// wireDeps swaps the development defaults for real backends when they are
// configured.
func wireDeps() error {
	log := logger.Get()

	deps.Plans = plans.NewCatalogue(
		config.PAYMENTS_HOBBY_PRICE_ID,
		config.PAYMENTS_PRO_PRICE_ID,
		config.PAYMENTS_CREDITS10_PRICE_ID,
	)

	if config.REDIS_ADDR != "" {
		client, err := lock.NewRedisClient(config.REDIS_ADDR, config.REDIS_PASSWORD)
		if err != nil {
			return err
		}
		deps.Locker = lock.NewRedisLocker(client)
		log.Info("✅ redis event lock", zap.String("addr", config.REDIS_ADDR))
	}

	if len(config.KAFKA_BROKERS) > 0 {
		pub, err := events.NewKafkaPublisher(config.KAFKA_BROKERS, config.KAFKA_TOPIC)
		if err != nil {
			return err
		}
		deps.Events = pub
		log.Info("✅ kafka publisher", zap.Strings("brokers", config.KAFKA_BROKERS), zap.String("topic", config.KAFKA_TOPIC))
	}

	if config.RESEND_API_KEY != "" {
		deps.Mail = mail.NewResendSender(config.RESEND_API_KEY, config.MAIL_FROM)
	} else if !config.IsDevelopment() {
		log.Warn("RESEND_API_KEY not set, emails are only logged")
	}

	return nil
}
