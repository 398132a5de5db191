// Package datasets holds the in-memory sample tables shown in the dashboard
// dialogs. Every browser session works on its own copy.
package datasets

import (
	"errors"

	"dbconsole/models"
)

// Kind names a dialog table
type Kind string

const (
	Users    Kind = "users"
	Records  Kind = "records"
	Database Kind = "database"
	Logs     Kind = "logs"
	Security Kind = "security"
	Submit   Kind = "submit"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrReadOnly     = errors.New("table is read-only")
	ErrRowNotFound  = errors.New("row not found")
	ErrEmptyRow     = errors.New("row has no values")
)

// Definition describes the shape and access rules of one table
type Definition struct {
	Kind      Kind
	Title     string
	Columns   []string
	ReadOnly  bool
	AdminOnly bool
	// Form marks the submit dialog, which shows an entry form above the table
	Form bool
}

// Allowed reports whether role may open the table
func (d Definition) Allowed(role models.Role) bool {
	return !d.AdminOnly || role == models.RoleAdmin
}

// HasTable is false for dialogs without a data table (security)
func (d Definition) HasTable() bool {
	return len(d.Columns) > 0
}

var order = []Kind{Users, Records, Database, Logs, Security, Submit}

var definitions = map[Kind]Definition{
	Users: {
		Kind:      Users,
		Title:     "User Management",
		Columns:   []string{"name", "email", "role", "status"},
		AdminOnly: true,
	},
	Records: {
		Kind:    Records,
		Title:   "My Records",
		Columns: []string{"title", "type", "date", "status"},
	},
	Database: {
		Kind:      Database,
		Title:     "Database Operations",
		Columns:   []string{"table", "records", "size", "lastUpdated"},
		AdminOnly: true,
	},
	Logs: {
		Kind:      Logs,
		Title:     "System Logs",
		Columns:   []string{"timestamp", "user", "action", "status"},
		ReadOnly:  true,
		AdminOnly: true,
	},
	Security: {
		Kind:      Security,
		Title:     "Security Settings",
		AdminOnly: true,
	},
	Submit: {
		Kind:    Submit,
		Title:   "Submit Data",
		Columns: []string{"title", "category", "description", "priority"},
		Form:    true,
	},
}

// Lookup returns the definition for a kind given as a string
func Lookup(kind string) (Definition, error) {
	def, ok := definitions[Kind(kind)]
	if !ok {
		return Definition{}, ErrUnknownTable
	}
	return def, nil
}

// Definitions lists every table in display order
func Definitions() []Definition {
	out := make([]Definition, 0, len(order))
	for _, k := range order {
		out = append(out, definitions[k])
	}
	return out
}
