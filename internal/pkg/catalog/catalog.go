package catalog

import (
	"errors"

	"github.com/FelixBrandt/StackDroid/app/models"
)

const (
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
)

var (
	ErrUnknownProduct = errors.New("catalog: unknown product")
	ErrUnknownMode    = errors.New("catalog: unknown purchase mode")
)

// Product is an immutable catalog entry, defined at deploy time and
// read-only at runtime. Prices are USD cents.
type Product struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	Category          string `json:"category"`
	Description       string `json:"description"`
	PricePerUseCents  int64  `json:"price_per_use_cents"`
	FullPurchaseCents int64  `json:"full_purchase_cents"`
	Status            string `json:"status"`
}

var products = []Product{
	{
		ID:                "linkedin-lead-gen",
		Name:              "AI-Powered LinkedIn Lead Generation & Outreach",
		Kind:              models.KIND_AUTOMATION,
		Category:          "Sales & Marketing",
		Description:       "Identifies high-value prospects on LinkedIn and crafts personalized outreach messages with automated follow-ups.",
		PricePerUseCents:  1500,
		FullPurchaseCents: 249900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "social-orchestrator",
		Name:              "Multi-Platform Social Media Content Orchestrator",
		Kind:              models.KIND_AUTOMATION,
		Category:          "Social Media",
		Description:       "Creates, optimizes and schedules content across all major platforms with engagement optimization.",
		PricePerUseCents:  1200,
		FullPurchaseCents: 199900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "market-intelligence",
		Name:              "Real-Time Market Intelligence & Competitor Analysis",
		Kind:              models.KIND_AUTOMATION,
		Category:          "Business Intelligence",
		Description:       "Monitors competitors, tracks market trends and analyzes pricing strategies in real time.",
		PricePerUseCents:  2500,
		FullPurchaseCents: 399900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "sales-funnel-optimizer",
		Name:              "Automated Customer Journey & Sales Funnel Optimizer",
		Kind:              models.KIND_AUTOMATION,
		Category:          "Sales & Conversion",
		Description:       "Analyzes customer behavior, identifies bottlenecks and optimizes sales funnels.",
		PricePerUseCents:  2000,
		FullPurchaseCents: 349900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "email-campaign-ai",
		Name:              "Smart Email Campaign Manager with AI Personalization",
		Kind:              models.KIND_AUTOMATION,
		Category:          "Email Marketing",
		Description:       "Crafts personalized emails, predicts optimal send times and segments audiences automatically.",
		PricePerUseCents:  1000,
		FullPurchaseCents: 179900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "ecommerce-intelligence",
		Name:              "E-commerce Price Intelligence & Product Data Aggregator",
		Kind:              models.KIND_SCRAPER,
		Category:          "E-commerce",
		Description:       "Monitors products across major e-commerce platforms, tracking pricing, inventory and reviews.",
		PricePerUseCents:  1800,
		FullPurchaseCents: 299900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "real-estate-intel",
		Name:              "Real Estate Market Data & Investment Opportunity Finder",
		Kind:              models.KIND_SCRAPER,
		Category:          "Real Estate",
		Description:       "Aggregates property listings, market trends and investment opportunities from major portals.",
		PricePerUseCents:  2200,
		FullPurchaseCents: 349900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "job-market-intel",
		Name:              "Job Market Intelligence & Talent Acquisition Data Miner",
		Kind:              models.KIND_SCRAPER,
		Category:          "HR & Recruitment",
		Description:       "Monitors job boards for salary insights, skill demand trends and talent pool analysis.",
		PricePerUseCents:  1600,
		FullPurchaseCents: 269900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "financial-sentiment",
		Name:              "Financial News & Stock Market Sentiment Analyzer",
		Kind:              models.KIND_SCRAPER,
		Category:          "Finance",
		Description:       "Monitors news, social media and filings to gauge market sentiment.",
		PricePerUseCents:  3000,
		FullPurchaseCents: 499900,
		Status:            STATUS_ACTIVE,
	},
	{
		ID:                "social-trend-analyzer",
		Name:              "Social Media Trend & Influencer Analytics Harvester",
		Kind:              models.KIND_SCRAPER,
		Category:          "Social Media",
		Description:       "Tracks viral trends, influencer performance and audience engagement across platforms.",
		PricePerUseCents:  1400,
		FullPurchaseCents: 229900,
		Status:            STATUS_ACTIVE,
	},
}

var byID = func() map[string]*Product {
	m := make(map[string]*Product, len(products))
	for i := range products {
		m[products[i].ID] = &products[i]
	}
	return m
}()

// GetByID returns the catalog entry for the given product id.
func GetByID(id string) (*Product, bool) {
	p, ok := byID[id]
	return p, ok
}

// Exists reports whether the product id is in the catalog.
func Exists(id string) bool {
	_, ok := byID[id]
	return ok
}

// PriceCents returns the authoritative price for a product in the given
// purchase mode.
func PriceCents(id, mode string) (int64, error) {
	p, ok := byID[id]
	if !ok {
		return 0, ErrUnknownProduct
	}
	switch mode {
	case models.PURCHASE_MODE_PER_USE:
		return p.PricePerUseCents, nil
	case models.PURCHASE_MODE_FULL:
		return p.FullPurchaseCents, nil
	default:
		return 0, ErrUnknownMode
	}
}

// Active returns all active catalog entries.
func Active() []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Status == STATUS_ACTIVE {
			out = append(out, p)
		}
	}
	return out
}

// ByKind returns active products of the given kind.
func ByKind(kind string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Status == STATUS_ACTIVE && p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}
