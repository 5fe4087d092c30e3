package confluence

// Page represents a Confluence content page with its storage-format body.
type Page struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Space   Space   `json:"space"`
	Body    Body    `json:"body"`
	Version Version `json:"version"`
	Links   Links   `json:"_links"`
}

// Space represents a Confluence space.
type Space struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Body holds the page body representations requested via expand.
type Body struct {
	Storage Storage `json:"storage"`
}

// Storage is the storage-format (XHTML) body of a page.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// Version holds the page version number.
type Version struct {
	Number int `json:"number"`
}

// Links holds the subset of _links fields the client uses.
type Links struct {
	WebUI string `json:"webui"`
}

// List is a paginated response.
type List[T any] struct {
	Results []T `json:"results"`
	Start   int `json:"start"`
	Limit   int `json:"limit"`
	Size    int `json:"size"`
}

// PageList is a paginated list of content pages.
type PageList = List[Page]

// SpaceList is a paginated list of spaces.
type SpaceList = List[Space]

// ListOptions configures paginated list operations.
type ListOptions struct {
	Start  int    // Offset of the first result, 0-indexed
	Limit  int    // Results per page, 0 means server default
	Expand string // Comma-separated expansions (e.g., "body.storage,version,space")
}
