package request

import "cinema-seating/pkg/utils"

// PaginatedRequest selects a window of bookings. Out-of-range values are
// clamped rather than rejected.
type PaginatedRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.PerPage)
}

func (p PaginatedRequest) Limit() int {
	_, perPage := utils.NormalizePage(p.Page, p.PerPage)
	return perPage
}

func (p PaginatedRequest) PageNumber() int {
	page, _ := utils.NormalizePage(p.Page, p.PerPage)
	return page
}
