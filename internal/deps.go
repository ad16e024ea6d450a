package internal

import (
	"bitwise74/tracker-api/internal/catalog"
	"bitwise74/tracker-api/internal/service"
	"bitwise74/tracker-api/internal/store"
	"bitwise74/tracker-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB            *gorm.DB
	Users         *store.UserStore
	Sessions      *security.SessionSigner
	Accounts      *service.AccountService
	Subscriptions *service.SubscriptionService
	Shows         *catalog.Aggregator
	Tokens        *catalog.TokenService
}
