package logics

// Pagination describes the page window of a list response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination derives page counts from a total row count.
func NewPagination(total int64, page, limit int) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

// NormalizePage clamps page/limit query values to sane bounds.
func NormalizePage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
