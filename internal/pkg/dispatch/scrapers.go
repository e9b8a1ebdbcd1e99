package dispatch

import (
	"context"
	"fmt"
)

func init() {
	Register("ecommerce-intelligence", executeEcommerceIntelligence)
	Register("real-estate-intel", executeRealEstateIntel)
	placeholder("job-market-intel", "Job Market Intelligence scraper executed")
	placeholder("financial-sentiment", "Financial Sentiment scraper executed")
	placeholder("social-trend-analyzer", "Social Trend Analyzer executed")
}

type productData struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
	Availability string  `json:"availability"`
	Seller       string  `json:"seller"`
	Platform     string  `json:"platform"`
	URL          string  `json:"url"`
}

func executeEcommerceIntelligence(ctx context.Context, params Params) (interface{}, error) {
	keyword := stringParam(params, "product_keyword", "gadget")
	maxResults := intParam(params, "max_results", 50)

	platforms := []string{"amazon", "ebay", "walmart"}
	products := make([]productData, 0, len(platforms)*3)
	for _, platform := range platforms {
		products = append(products,
			productData{
				Title:        fmt.Sprintf("Premium %s - Professional Grade", keyword),
				Price:        299.99,
				Rating:       4.7,
				ReviewCount:  1523,
				Availability: "in_stock",
				Seller:       "TechStore Official",
				Platform:     platform,
				URL:          fmt.Sprintf("https://%s.com/product/123", platform),
			},
			productData{
				Title:        fmt.Sprintf("%s Starter Kit - Best Value", keyword),
				Price:        149.99,
				Rating:       4.5,
				ReviewCount:  892,
				Availability: "in_stock",
				Seller:       "ValueMart",
				Platform:     platform,
				URL:          fmt.Sprintf("https://%s.com/product/456", platform),
			},
			productData{
				Title:        fmt.Sprintf("Deluxe %s Bundle - Complete Set", keyword),
				Price:        499.99,
				Rating:       4.9,
				ReviewCount:  2341,
				Availability: "limited",
				Seller:       "Premium Seller",
				Platform:     platform,
				URL:          fmt.Sprintf("https://%s.com/product/789", platform),
			},
		)
	}
	if maxResults < len(products) {
		products = products[:maxResults]
	}
	return products, nil
}

type propertyListing struct {
	Address         string  `json:"address"`
	Price           float64 `json:"price"`
	Bedrooms        int     `json:"bedrooms"`
	Bathrooms       float64 `json:"bathrooms"`
	SquareFeet      int     `json:"square_feet"`
	RentalEstimate  float64 `json:"rental_estimate"`
	InvestmentScore float64 `json:"investment_score"`
	Source          string  `json:"source"`
}

func executeRealEstateIntel(ctx context.Context, params Params) (interface{}, error) {
	location := stringParam(params, "location", "Austin, TX")

	listings := []propertyListing{
		{Address: fmt.Sprintf("1247 Maple Grove Dr, %s", location), Price: 425000, Bedrooms: 3, Bathrooms: 2, SquareFeet: 1850, RentalEstimate: 2650, InvestmentScore: 8.2, Source: "zillow"},
		{Address: fmt.Sprintf("89 Sunset Ridge Ln, %s", location), Price: 589000, Bedrooms: 4, Bathrooms: 2.5, SquareFeet: 2400, RentalEstimate: 3200, InvestmentScore: 7.6, Source: "realtor"},
		{Address: fmt.Sprintf("502 Cedar Hollow Ct, %s", location), Price: 339000, Bedrooms: 2, Bathrooms: 2, SquareFeet: 1320, RentalEstimate: 2100, InvestmentScore: 8.8, Source: "redfin"},
	}
	return listings, nil
}
