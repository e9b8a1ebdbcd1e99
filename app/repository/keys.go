package repository

import "fmt"

// Store key layout. Kept compatible with the original deployment so data
// survives the migration.
func userKey(id string) string           { return "user:" + id }
func userEmailKey(email string) string   { return "user:email:" + email }
func purchaseKey(id string) string       { return "purchase:" + id }
func purchaseTxnKey(txn string) string   { return "purchase:txn:" + txn }
func completionKey(id string) string     { return "purchase:" + id + ":completion" }
func userPurchasesKey(uid string) string { return fmt.Sprintf("user:%s:purchases", uid) }
func userCreditsKey(uid string) string   { return fmt.Sprintf("user:%s:credits", uid) }
func userAPIKeysKey(uid string) string   { return fmt.Sprintf("user:%s:apikeys", uid) }
func apiKeyKey(key string) string        { return "apikey:" + key }
func usageCounterKey(uid, pid string) string {
	return fmt.Sprintf("usage:%s:%s", uid, pid)
}
func usageLogKey(date string) string  { return "usage:log:" + date }
func analyticsKey(date string) string { return "analytics:" + date }

const (
	usersAllKey         = "users:all"
	usageTotalKey       = "usage:total"
	analyticsRevenueKey = "analytics:revenue"
)
