package web

// PageLink is one numbered link in a pager.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// Page is one local page of an already fully loaded list.
type Page[T any] struct {
	Items []T
	Pages int
	Links []PageLink
}

// Paginate slices items into pages of size and returns page number (1-based,
// clamped into range). href builds the link for a page number.
func Paginate[T any](items []T, number, size int, href func(int) string) Page[T] {
	if size <= 0 {
		size = len(items)
	}
	pages := 1
	if size > 0 && len(items) > 0 {
		pages = (len(items) + size - 1) / size
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	start := (number - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	p := Page[T]{Items: items[start:end], Pages: pages}
	for i := 1; i <= pages; i++ {
		p.Links = append(p.Links, PageLink{Number: i, Href: href(i), Current: i == number})
	}
	return p
}
