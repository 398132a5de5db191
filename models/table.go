package models

// Row is one entry of a dialog table. Values are keyed by column name.
type Row struct {
	ID     int               `json:"id"`
	Values map[string]string `json:"values"`
}

// Get returns the value of a column, or "" when the column is unset
func (r Row) Get(column string) string {
	return r.Values[column]
}
