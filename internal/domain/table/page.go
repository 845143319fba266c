package table

// DefaultPageSize is the row count of one page when none is requested.
const DefaultPageSize = 10

// Page is one slice of a table with its position metadata.
type Page struct {
	Number int   `json:"page"`
	Size   int   `json:"page_size"`
	Pages  int   `json:"pages"`
	Total  int   `json:"total"`
	Rows   []Row `json:"rows"`
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.Pages }

// Paginate returns 1-based page number of rows. Out-of-range pages are
// clamped and an empty table has one empty page.
func Paginate(rows []Row, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(rows) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page = min(max(page, 1), pages)

	start := (page - 1) * size
	end := min(start+size, len(rows))
	return Page{
		Number: page,
		Size:   size,
		Pages:  pages,
		Total:  len(rows),
		Rows:   rows[start:end],
	}
}
