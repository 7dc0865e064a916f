package view

import (
	"context"

	"github.com/ignatzorin/freelance-flow/internal/logger"
)

// CallToAction кнопка, ведущая на маршрут.
type CallToAction struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// Feature карточка возможности.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LandingContent статическое содержимое главной страницы.
type LandingContent struct {
	Brand       string         `json:"brand"`
	NavCTA      CallToAction   `json:"nav_cta"`
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle"`
	HeroCTAs    []CallToAction `json:"hero_ctas"`
	Features    []Feature      `json:"features"`
	CTATitle    string         `json:"cta_title"`
	CTASubtitle string         `json:"cta_subtitle"`
	CTA         CallToAction   `json:"cta"`
	Footer      string         `json:"footer"`
}

// LandingView либо перенаправление, либо содержимое.
type LandingView struct {
	Redirect string          `json:"redirect,omitempty"`
	Content  *LandingContent `json:"content,omitempty"`
}

// SessionChecker проверяет наличие сессии.
type SessionChecker interface {
	GetSession(ctx context.Context, accessToken string) (bool, error)
}

var landing = LandingContent{
	Brand:    BrandName,
	NavCTA:   CallToAction{Label: "Get Started", Route: RouteAuth},
	Title:    "Win More Clients with AI-Powered Proposals",
	Subtitle: "Streamline your freelance workflow with intelligent proposal generation, client tracking, and performance analytics",
	HeroCTAs: []CallToAction{
		{Label: "Start Free Trial", Route: RouteAuth},
		{Label: "Learn More", Route: RouteAuth},
	},
	Features: []Feature{
		{
			Title:       "AI-Powered Proposals",
			Description: "Generate professional proposals tailored to each job description with customizable tones",
		},
		{
			Title:       "Client Management",
			Description: "Track and organize all your clients across different platforms in one place",
		},
		{
			Title:       "Performance Analytics",
			Description: "Visualize your success rate with detailed statistics and insights",
		},
	},
	CTATitle:    "Ready to Transform Your Freelance Business?",
	CTASubtitle: "Join thousands of freelancers who are winning more projects with Freelance Flow",
	CTA:         CallToAction{Label: "Get Started Now", Route: RouteAuth},
	Footer:      "© 2025 Freelance Flow. All rights reserved.",
}

// Landing перенаправляет вошедшего пользователя на дашборд,
// остальным отдаёт маркетинговую страницу. Сбой проверки сессии считается отсутствием сессии.
func Landing(ctx context.Context, sessions SessionChecker, accessToken string) *LandingView {
	ok, err := sessions.GetSession(ctx, accessToken)
	if err != nil {
		logger.Log.WithField("error", err.Error()).Warn("landing: не удалось проверить сессию")
	}
	if err == nil && ok {
		return &LandingView{Redirect: RouteDashboard}
	}

	content := landing
	return &LandingView{Content: &content}
}
