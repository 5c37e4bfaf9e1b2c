package viewmodel

// PageLink is one numbered pagination button.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	TotalCount int
	PrevURL    string
	NextURL    string
	Pages      []PageLink
}

// SortLink is a clickable column header.
type SortLink struct {
	Key    string
	Label  string
	URL    string
	Active bool
	Dir    string
}

// FilterOption is one choice of a select filter.
type FilterOption struct {
	Value    string
	Label    string
	Selected bool
}

// Filter describes one facet control in a list toolbar.
type Filter struct {
	Param   string
	Label   string
	Kind    string
	Value   string
	Options []FilterOption
}

// Toolbar carries the search box and filters of a list page.
type Toolbar struct {
	Action      string
	Search      string
	Fingerprint string
	Sort        string
	Dir         string
	Filters     []Filter
	// ClearURL resets search and filters but keeps the sort.
	ClearURL string
	Active   bool
}

// Banner reports a failed load with a retry action.
type Banner struct {
	Message  string
	RetryURL string
}
