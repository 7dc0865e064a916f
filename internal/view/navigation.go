package view

import (
	"context"
	"strings"

	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/models"
)

// Маршруты клиентского приложения.
const (
	RouteLanding   = "/"
	RouteAuth      = "/auth"
	RouteDashboard = "/dashboard"
	RouteGenerate  = "/generate"
	RouteClients   = "/clients"
	RouteStats     = "/stats"
)

const (
	BrandName       = "Freelance Flow"
	MsgLoggedOut    = "Logged out successfully"
	MsgLogoutFailed = "Error logging out"
	logoutLabel     = "Logout"
	menuGroupLabel  = "Menu"
)

// MenuItem пункт бокового меню.
type MenuItem struct {
	Title  string `json:"title"`
	Route  string `json:"route"`
	Label  string `json:"label,omitempty"`
	Active bool   `json:"active"`
}

// NavigationView состояние бокового меню для текущего маршрута.
type NavigationView struct {
	Brand       string     `json:"brand,omitempty"`
	GroupLabel  string     `json:"group_label"`
	Items       []MenuItem `json:"items"`
	LogoutLabel string     `json:"logout_label,omitempty"`
	Collapsed   bool       `json:"collapsed"`
}

var menu = []MenuItem{
	{Title: "Dashboard", Route: RouteDashboard},
	{Title: "Generate Proposal", Route: RouteGenerate},
	{Title: "Clients", Route: RouteClients},
	{Title: "Stats", Route: RouteStats},
}

// Navigation строит меню. Активен пункт, совпадающий с маршрутом или его префиксом;
// в свёрнутом виде подписи и название скрыты.
func Navigation(route string, collapsed bool) *NavigationView {
	route = strings.TrimRight(route, "/")

	view := &NavigationView{
		GroupLabel: menuGroupLabel,
		Items:      make([]MenuItem, 0, len(menu)),
		Collapsed:  collapsed,
	}
	if !collapsed {
		view.Brand = BrandName
		view.LogoutLabel = logoutLabel
	}

	for _, item := range menu {
		item.Active = route == item.Route || strings.HasPrefix(route, item.Route+"/")
		if !collapsed {
			item.Label = item.Title
		}
		view.Items = append(view.Items, item)
	}

	return view
}

// SignOuter завершает сессию.
type SignOuter interface {
	SignOut(ctx context.Context, accessToken string) error
}

// LogoutResult итог выхода: уведомление и маршрут перехода (пусто, если остаёмся).
type LogoutResult struct {
	Notification *models.Notification `json:"notification"`
	Redirect     string               `json:"redirect,omitempty"`
}

// Logout завершает сессию. При ошибке пользователь остаётся на месте.
func Logout(ctx context.Context, sessions SignOuter, accessToken string) (*LogoutResult, error) {
	if err := sessions.SignOut(ctx, accessToken); err != nil {
		logger.Log.WithField("error", err.Error()).Warn("navigation: выход не удался")
		return &LogoutResult{Notification: models.Failure(MsgLogoutFailed)}, err
	}

	return &LogoutResult{
		Notification: models.Success(MsgLoggedOut),
		Redirect:     RouteAuth,
	}, nil
}
