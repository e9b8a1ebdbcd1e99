package dispatch

import (
	"context"
	"fmt"
)

// Automation handlers. All of them produce demonstration data; real
// integrations sit behind the same registry.

func init() {
	Register("linkedin-lead-gen", executeLinkedInLeadGen)
	Register("social-orchestrator", executeSocialOrchestrator)
	placeholder("market-intelligence", "Market Intelligence automation executed")
	placeholder("sales-funnel-optimizer", "Sales Funnel Optimizer executed")
	placeholder("email-campaign-ai", "Email Campaign AI executed")
}

type lead struct {
	Name                string  `json:"name"`
	Title               string  `json:"title"`
	Company             string  `json:"company"`
	ProfileURL          string  `json:"profile_url"`
	Score               float64 `json:"score"`
	PersonalizedMessage string  `json:"personalized_message"`
}

func executeLinkedInLeadGen(ctx context.Context, params Params) (interface{}, error) {
	industry := stringParam(params, "target_industry", "technology")
	role := stringParam(params, "target_role", "decision maker")
	maxLeads := intParam(params, "max_leads", 50)

	prospects := []lead{
		{Name: "Sarah Johnson", Title: "VP of Marketing", Company: "TechCorp Inc", ProfileURL: "https://linkedin.com/in/sarahjohnson", Score: 0.92},
		{Name: "Michael Chen", Title: "Director of Sales", Company: "Growth Solutions", ProfileURL: "https://linkedin.com/in/michaelchen", Score: 0.87},
		{Name: "Emily Rodriguez", Title: "Chief Revenue Officer", Company: "ScaleUp Ventures", ProfileURL: "https://linkedin.com/in/emilyrodriguez", Score: 0.95},
	}
	if maxLeads < len(prospects) {
		prospects = prospects[:maxLeads]
	}
	for i := range prospects {
		prospects[i].PersonalizedMessage = fmt.Sprintf(
			"Hi %s, I noticed your work as %s in the %s space and thought you might be interested in how teams like %s approach %s outreach.",
			prospects[i].Name, prospects[i].Title, industry, prospects[i].Company, role,
		)
	}
	return prospects, nil
}

type scheduledPost struct {
	Platform      string `json:"platform"`
	Content       string `json:"content"`
	ScheduledSlot string `json:"scheduled_slot"`
	Hashtags      string `json:"hashtags"`
}

func executeSocialOrchestrator(ctx context.Context, params Params) (interface{}, error) {
	topic := stringParam(params, "topic", "product updates")

	platforms := []struct {
		name string
		slot string
	}{
		{"twitter", "09:15"},
		{"linkedin", "11:30"},
		{"instagram", "18:45"},
		{"facebook", "20:00"},
	}

	posts := make([]scheduledPost, 0, len(platforms))
	for _, p := range platforms {
		posts = append(posts, scheduledPost{
			Platform:      p.name,
			Content:       fmt.Sprintf("Fresh take on %s, adapted for %s.", topic, p.name),
			ScheduledSlot: p.slot,
			Hashtags:      fmt.Sprintf("#%s #growth", p.name),
		})
	}
	return posts, nil
}
