package models

// PaginatedRows represents a page of table rows
type PaginatedRows struct {
	Rows       []Row `json:"rows"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalRows  int   `json:"total_rows"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPaginatedRows slices rows down to the requested page.
// page and pageSize below 1 are treated as 1 and 50.
func NewPaginatedRows(rows []Row, page, pageSize int) *PaginatedRows {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &PaginatedRows{
		Rows:       rows[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalRows:  total,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
