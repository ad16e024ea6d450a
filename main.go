package main

import (
	"bitwise74/tracker-api/app"
	"bitwise74/tracker-api/config"
	"bitwise74/tracker-api/db"
	"bitwise74/tracker-api/internal"
	"bitwise74/tracker-api/internal/catalog"
	"bitwise74/tracker-api/internal/service"
	"bitwise74/tracker-api/internal/store"
	"bitwise74/tracker-api/pkg/security"
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if err := app.MakeLogger(viper.GetString("app.log_level")); err != nil {
		panic(err)
	}

	d, err := setup(context.Background())
	if err != nil {
		zap.L().Fatal("Failed to start", zap.Error(err))
	}

	router, err := app.NewRouter(d)
	if err != nil {
		zap.L().Fatal("Failed to create router", zap.Error(err))
	}

	port := viper.GetInt("host.port")
	zap.L().Info("Server starting", zap.Int("port", port))

	err = router.Run(fmt.Sprintf(":%d", port))
	if err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}

// setup builds every dependency and logs into both catalogs. The server
// doesn't start without a TVDB token and the genre table.
func setup(ctx context.Context) (*internal.Deps, error) {
	gdb, err := db.Open(viper.GetString("db.type"), viper.GetString("db.dsn"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	mailer, err := service.NewMailer(viper.GetString("mail.transport"), service.MailConfig{
		Host:            viper.GetString("mail.host"),
		Port:            viper.GetInt("mail.port"),
		Sender:          viper.GetString("mail.sender_address"),
		Password:        viper.GetString("mail.password"),
		ResendAPIKey:    viper.GetString("mail.resend_api_key"),
		VerificationURI: viper.GetString("mail.verification_uri"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer, %w", err)
	}

	var checker service.EmailChecker = service.AllowAllChecker{}
	if viper.GetBool("mail.check_mx") {
		checker = &service.MXChecker{}
	}

	opts := catalog.Options{
		Timeout: viper.GetDuration("upstream.timeout"),
		RPS:     viper.GetFloat64("upstream.rps"),
	}

	tmdb := catalog.NewTMDB(catalog.TMDBConfig{
		BaseURI: viper.GetString("tmdb.base_uri"),
		APIKey:  viper.GetString("tmdb.api_key"),
	}, opts)

	tvdb := catalog.NewTVDB(catalog.TVDBConfig{
		APIKey:     viper.GetString("tvdb.api_key"),
		UserKey:    viper.GetString("tvdb.user_key"),
		Username:   viper.GetString("tvdb.username"),
		LoginURI:   viper.GetString("tvdb.login_uri"),
		RefreshURI: viper.GetString("tvdb.refresh_uri"),
		SeriesURI:  viper.GetString("tvdb.series_uri"),
	}, opts)

	creds := catalog.NewCredentialStore()
	tokens := catalog.NewTokenService(tvdb, creds, viper.GetDuration("tvdb.refresh_min_interval"), opts.Timeout)
	shows := catalog.NewAggregator(tmdb, tvdb, creds)

	if err := tokens.Acquire(ctx); err != nil {
		return nil, err
	}

	if err := shows.LoadGenres(ctx); err != nil {
		return nil, fmt.Errorf("failed to load genres, %w", err)
	}

	if t := viper.GetDuration("tvdb.refresh_interval"); t > 0 {
		service.CredentialRefresh(ctx, t, tokens)
	}

	users := store.NewUserStore(gdb)
	sessions := security.NewSessionSigner(viper.GetString("security.jwt_secret"), viper.GetDuration("security.session_ttl"))

	return &internal.Deps{
		DB:       gdb,
		Users:    users,
		Sessions: sessions,
		Accounts: service.NewAccountService(
			users,
			store.NewTokenStore(gdb),
			security.New(),
			sessions,
			mailer,
			checker,
		),
		Subscriptions: service.NewSubscriptionService(store.NewSubscriptionStore(gdb), shows),
		Shows:         shows,
		Tokens:        tokens,
	}, nil
}
