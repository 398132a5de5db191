package datasets

import "dbconsole/models"

func row(id int, columns []string, values ...string) models.Row {
	r := models.Row{ID: id, Values: make(map[string]string, len(columns))}
	for i, col := range columns {
		r.Values[col] = values[i]
	}
	return r
}

// sampleRows returns a fresh copy of the seed data for kind
func sampleRows(kind Kind) []models.Row {
	cols := definitions[kind].Columns
	switch kind {
	case Users:
		return []models.Row{
			row(1, cols, "John Doe", "john@example.com", "Admin", "Active"),
			row(2, cols, "Jane Smith", "jane@example.com", "User", "Active"),
			row(3, cols, "Bob Johnson", "bob@example.com", "User", "Inactive"),
		}
	case Records:
		return []models.Row{
			row(1, cols, "Project Alpha", "Development", "2024-06-01", "In Progress"),
			row(2, cols, "Database Migration", "Infrastructure", "2024-05-28", "Completed"),
			row(3, cols, "Security Audit", "Security", "2024-06-02", "Pending"),
		}
	case Database:
		return []models.Row{
			row(1, cols, "users", "1234", "2.5 MB", "2024-06-01 14:30"),
			row(2, cols, "projects", "567", "1.8 MB", "2024-06-01 12:15"),
			row(3, cols, "logs", "8901", "5.2 MB", "2024-06-01 16:45"),
		}
	case Logs:
		return []models.Row{
			row(1, cols, "2024-06-01 16:45:23", "john@example.com", "Login", "Success"),
			row(2, cols, "2024-06-01 16:30:12", "jane@example.com", "Data Update", "Success"),
			row(3, cols, "2024-06-01 16:15:45", "admin@example.com", "User Creation", "Failed"),
		}
	}
	return nil
}
