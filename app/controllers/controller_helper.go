package controllers

import (
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/StackDroid/app/repository"
	"github.com/FelixBrandt/StackDroid/internal/pkg/entitlement"
	"github.com/FelixBrandt/StackDroid/internal/pkg/ledger"
	"github.com/FelixBrandt/StackDroid/internal/pkg/metering"
	"github.com/FelixBrandt/StackDroid/internal/pkg/payments"
)

var (
	servicesOnce     sync.Once
	ledgerService    *ledger.Service
	entitlementCheck *entitlement.Engine
	meteringService  *metering.Service
	stripeClient     *payments.StripeClient
	paypalClient     *payments.PayPalClient
)

func initServices() {
	servicesOnce.Do(func() {
		repos := repository.GetGlobalFactory().GetRepositories()
		ledgerService = ledger.NewService(repos)
		entitlementCheck = entitlement.NewEngine(repos.Purchase, repos.Credit)
		meteringService = metering.NewService(repos.Analytics)
		stripeClient = payments.NewStripeClientFromEnv()
		paypalClient = payments.NewPayPalClientFromEnv()
	})
}

func getLedgerService() *ledger.Service {
	initServices()
	return ledgerService
}

func getEntitlementEngine() *entitlement.Engine {
	initServices()
	return entitlementCheck
}

func getMeteringService() *metering.Service {
	initServices()
	return meteringService
}

func getStripeClient() *payments.StripeClient {
	initServices()
	return stripeClient
}

func getPayPalClient() *payments.PayPalClient {
	initServices()
	return paypalClient
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}
