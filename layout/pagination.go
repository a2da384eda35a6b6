package layout

// TotalPages is the number of pages needed for count items, at least 1.
func TotalPages(count, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// ClampPage keeps page within [0, total-1].
func ClampPage(page, total int) int {
	if total <= 0 || page < 0 {
		return 0
	}
	if page >= total {
		return total - 1
	}
	return page
}

// NextPage advances one page, wrapping from the last page to the first.
func NextPage(page, total int) int {
	if total <= 1 {
		return 0
	}
	return (ClampPage(page, total) + 1) % total
}

// PrevPage goes back one page, wrapping from the first page to the last.
func PrevPage(page, total int) int {
	if total <= 1 {
		return 0
	}
	return (ClampPage(page, total) - 1 + total) % total
}
