package pagination

import "slices"

// Item is one entry of the paginated list.
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// DataSource is the ordered list of items loaded so far.
type DataSource []Item

// Append returns prev followed by page in a new slice, so states never share
// backing arrays.
func (d DataSource) Append(page DataSource) DataSource {
	return slices.Concat(d, page)
}

// Page is one response from a Service.
type Page struct {
	// Items are the entries starting at the requested offset.
	Items DataSource
	// Total is the size of the whole collection.
	Total int
}
