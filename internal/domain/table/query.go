package table

// Query is the full view state of a table: search text, sort and page.
type Query struct {
	Search string
	Sort   SortState
	Page   int
	Size   int
}

// View is the result of running a Query. All holds every matching row in
// sorted order and is what exports serialize.
type View struct {
	Page
	All  []Row     `json:"-"`
	Sort SortState `json:"sort"`
	Dir  string    `json:"dir,omitempty"`
	Cols []Column  `json:"columns"`
}

// Run searches, sorts and paginates rows.
func (q Query) Run(rows []Row, cols []Column) View {
	all := Sort(Search(rows, cols, q.Search), q.Sort)
	return View{
		Page: Paginate(all, q.Page, q.Size),
		All:  all,
		Sort: q.Sort,
		Dir:  q.Sort.Dir.String(),
		Cols: cols,
	}
}
