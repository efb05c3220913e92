package repository

// Page identifies one bounded slice of the upstream collection: a 1-based page number and a size.
type Page struct {
	Number int
	Size   int
}

// Offset is the index of the first record of the page.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// PageResult carries one page of records and the total count of the collection.
// It is also the wire shape of the upstream list endpoint.
type PageResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}
