// Package views decides what an authenticated user sees: which dashboard,
// which feature cards and whether the settings area is reachable.
package views

import (
	"dbconsole/models"
)

// Dashboard identifies the dashboard variant to render
type Dashboard int

const (
	None Dashboard = iota
	UserDashboard
	AdminDashboard
)

func (d Dashboard) String() string {
	switch d {
	case AdminDashboard:
		return "admin"
	case UserDashboard:
		return "user"
	default:
		return "none"
	}
}

// Select picks the dashboard for a session snapshot. Any authenticated
// role other than admin gets the user dashboard.
func Select(state models.AuthState) Dashboard {
	if !state.IsAuthenticated || state.User == nil {
		return None
	}
	if state.User.Role == models.RoleAdmin {
		return AdminDashboard
	}
	return UserDashboard
}

// CanAccessSettings gates the "go to settings" action
func CanAccessSettings(state models.AuthState) bool {
	return state.IsAuthenticated && state.User != nil
}

// ShowAdminSettings reports whether the admin-only settings card is shown
func ShowAdminSettings(state models.AuthState) bool {
	return Select(state) == AdminDashboard
}

// Feature is a dashboard card. Exactly one of Dialog and Href is set.
type Feature struct {
	Key         string
	Title       string
	Description string
	Icon        string
	Color       string
	Dialog      string
	Href        string
}

// Link is where the card's Access button points
func (f Feature) Link() string {
	if f.Href != "" {
		return f.Href
	}
	return "/dialogs/" + f.Dialog
}

var adminFeatures = []Feature{
	{Key: "users", Title: "User Management", Description: "Manage users, roles, and permissions", Icon: "users", Color: "blue", Dialog: "users"},
	{Key: "database", Title: "Database Operations", Description: "View and manage database tables", Icon: "database", Color: "green", Dialog: "database"},
	{Key: "reports", Title: "System Reports", Description: "Analytics and performance reports", Icon: "chart", Color: "purple", Href: "/reports"},
	{Key: "security", Title: "Security Settings", Description: "RBAC and security configuration", Icon: "shield", Color: "red", Dialog: "security"},
	{Key: "logs", Title: "System Logs", Description: "View system activity logs", Icon: "file", Color: "orange", Dialog: "logs"},
	{Key: "configuration", Title: "Configuration", Description: "System settings and preferences", Icon: "settings", Color: "gray", Href: "/settings"},
}

var userFeatures = []Feature{
	{Key: "records", Title: "My Records", Description: "View and edit your personal records", Icon: "file", Color: "blue", Dialog: "records"},
	{Key: "submit", Title: "Submit Data", Description: "Add new data entries", Icon: "plus", Color: "green", Dialog: "submit"},
	{Key: "reports", Title: "My Reports", Description: "View your personal analytics", Icon: "chart", Color: "purple", Href: "/reports"},
	{Key: "profile", Title: "Profile Settings", Description: "Update your profile information", Icon: "user", Color: "gray", Href: "/settings"},
}

// Features returns the cards of a dashboard
func Features(d Dashboard) []Feature {
	var src []Feature
	switch d {
	case AdminDashboard:
		src = adminFeatures
	case UserDashboard:
		src = userFeatures
	default:
		return nil
	}
	out := make([]Feature, len(src))
	copy(out, src)
	return out
}
