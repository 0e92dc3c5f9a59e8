package services

import (
	portsrepo "github.com/aurumgold/aurum_backend/internal/core/ports/repositories"
	portssvc "github.com/aurumgold/aurum_backend/internal/core/ports/services"
	"github.com/aurumgold/aurum_backend/internal/platform/config"
)

// NewServiceContainer wires every application service with its repository
// dependencies and the ledger settings from configuration.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	validator := NewIntentValidator(cfg.MinPurchaseUSD)
	rateSvc := NewRateService(repos.RateRepo, cfg.RateMaxAge)

	return &portssvc.ServiceContainer{
		Transfer: NewTransferService(repos.LedgerRepo, repos.AccountRepo, repos.UserRepo, rateSvc, validator, cfg.AssetCode),
		Rate:     rateSvc,
		History:  NewHistoryService(repos.LedgerRepo, repos.AccountRepo),
		User:     NewUserService(repos.UserRepo, repos.AccountRepo),
		Auth:     NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer),
	}
}
