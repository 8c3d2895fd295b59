package handler

import (
	"strconv"
)

// pageLink builds the query string of a page link that keeps the active filters.
// sticky is already encoded and never contains "page".
func pageLink(sticky string, page int) string {
	link := "?"
	if sticky != "" {
		link += sticky + "&"
	}
	return link + "page=" + strconv.Itoa(page)
}

// pageLinks returns the previous and next page links, nil at either end.
func pageLinks(sticky string, page int, hasMore bool) (prev, next *string) {
	if page > 1 {
		p := pageLink(sticky, page-1)
		prev = &p
	}
	if hasMore {
		n := pageLink(sticky, page+1)
		next = &n
	}
	return prev, next
}

// parseWeeks reads the profile week count; anything unparseable means the default.
func parseWeeks(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
