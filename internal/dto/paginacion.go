package dto

// Pagina clamps page into [1, last page] for a result set of total rows.
// An empty result set still has one (empty) page.
func Pagina(page, limit int, total int64) int {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return page
	}
	ultima := int((total + int64(limit) - 1) / int64(limit))
	if ultima < 1 {
		ultima = 1
	}
	if page > ultima {
		page = ultima
	}
	return page
}

// TotalPaginas returns how many pages of limit rows total spans (at least 1).
func TotalPaginas(limit int, total int64) int {
	if limit < 1 || total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
