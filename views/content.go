package views

import "strconv"

// Stat is one label/value line of an overview card
type Stat struct {
	Label string
	Value string
	Tone  string
}

// AdminOverview is the "System Overview" card. workspaces is the number of
// clients (browser sessions or token holders) with a live dataset catalog.
func AdminOverview(workspaces int) []Stat {
	return []Stat{
		{Label: "Total Users", Value: "1,234"},
		{Label: "Active Workspaces", Value: strconv.Itoa(workspaces)},
		{Label: "Database Size", Value: "2.3 GB"},
		{Label: "System Uptime", Value: "99.9%"},
	}
}

// UserQuickStats is the user dashboard's "Quick Stats" card
func UserQuickStats(records int) []Stat {
	return []Stat{
		{Label: "My Records", Value: strconv.Itoa(records)},
		{Label: "Pending Submissions", Value: "2"},
		{Label: "Last Login", Value: "2 hours ago"},
		{Label: "Account Status", Value: "Active", Tone: ToneGood},
	}
}

// UserActivity is the fixed activity list of the user dashboard
var UserActivity = []string{
	"Record updated successfully",
	"New data submission",
	"Profile information updated",
}

// Report is a summary card of the reports view
type Report struct {
	Title       string
	Description string
	Value       string
}

// Reports are the four summary cards
var Reports = []Report{
	{Title: "User Activity Report", Description: "Last 30 days user engagement metrics", Value: "1,234 active users"},
	{Title: "Database Performance", Description: "Query execution times and optimization metrics", Value: "97.8% efficiency"},
	{Title: "Growth Analytics", Description: "Monthly growth trends and projections", Value: "+12.5% this month"},
	{Title: "System Usage", Description: "Resource utilization and capacity planning", Value: "76% utilization"},
}

// MetricRow is one row of the reports sample table
type MetricRow struct {
	Date   string
	Metric string
	Value  string
	Status string
}

// Tone is the badge colour class of the row's status
func (m MetricRow) Tone() string {
	if m.Status == "Normal" {
		return ToneInfo
	}
	return ToneGood
}

// ReportMetrics is the sample data table of the reports view
var ReportMetrics = []MetricRow{
	{Date: "2024-06-01", Metric: "User Registrations", Value: "156", Status: "Good"},
	{Date: "2024-06-01", Metric: "Database Queries", Value: "2,847", Status: "Normal"},
	{Date: "2024-06-01", Metric: "Response Time", Value: "0.8s", Status: "Excellent"},
}

// Badge tones
const (
	ToneGood    = "good"
	TonePending = "pending"
	ToneBad     = "bad"
	ToneInfo    = "info"
)

// StatusTone classifies a table status value for its badge
func StatusTone(status string) string {
	switch status {
	case "Active", "Success", "Completed":
		return ToneGood
	case "Pending", "In Progress":
		return TonePending
	default:
		return ToneBad
	}
}

// Highlight is one card of the landing page
type Highlight struct {
	Title       string
	Description string
}

// Highlights are the four landing-page cards
var Highlights = []Highlight{
	{"Role-Based Security", "Advanced RBAC and row-level security implementation"},
	{"SQL Server Integration", "Stored procedures, triggers, and advanced features"},
	{"Analytics & Reports", "Comprehensive reporting and data visualization"},
	{"User Management", "Complete user and role administration"},
}

// FeatureList is a titled bullet list on the landing page
type FeatureList struct {
	Title string
	Items []string
}

// FeatureLists are the two "System Features" columns
var FeatureLists = []FeatureList{
	{
		Title: "Database Features",
		Items: []string{
			"Advanced stored procedures and functions",
			"Database triggers and automation",
			"Full-text search capabilities",
			"Performance optimization and indexing",
		},
	},
	{
		Title: "Security & Access",
		Items: []string{
			"Role-based access control (RBAC)",
			"Row-level security implementation",
			"Data encryption and integrity",
			"Audit logging and compliance",
		},
	},
}
