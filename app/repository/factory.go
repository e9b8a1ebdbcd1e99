package repository

import "sync"

// Repositories bundles all repository implementations.
type Repositories struct {
	User      UserRepository
	Purchase  PurchaseRepository
	Credit    CreditRepository
	APIKey    APIKeyRepository
	Analytics AnalyticsRepository
}

// NewRepositories creates the Redis-backed repository set.
func NewRepositories() *Repositories {
	return &Repositories{
		User:      NewUserRepository(),
		Purchase:  NewPurchaseRepository(),
		Credit:    NewCreditRepository(),
		APIKey:    NewAPIKeyRepository(),
		Analytics: NewAnalyticsRepository(),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory() *Factory {
	return &Factory{}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories()
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetPurchaseRepository returns the purchase repository instance
func (f *Factory) GetPurchaseRepository() PurchaseRepository {
	return f.GetRepositories().Purchase
}

// GetCreditRepository returns the credit repository instance
func (f *Factory) GetCreditRepository() CreditRepository {
	return f.GetRepositories().Credit
}

// GetAPIKeyRepository returns the API key repository instance
func (f *Factory) GetAPIKeyRepository() APIKeyRepository {
	return f.GetRepositories().APIKey
}

// GetAnalyticsRepository returns the analytics repository instance
func (f *Factory) GetAnalyticsRepository() AnalyticsRepository {
	return f.GetRepositories().Analytics
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// GetGlobalFactory returns the global repository factory
func GetGlobalFactory() *Factory {
	factoryOnce.Do(func() {
		globalFactory = NewFactory()
	})
	return globalFactory
}
