package confluence

// Page is a Confluence content item with the expansions the report pipeline
// needs (storage body, version, space, ancestors).
type Page struct {
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type,omitempty"`
	Title     string     `json:"title"`
	Space     *Space     `json:"space,omitempty"`
	Version   *Version   `json:"version,omitempty"`
	Ancestors []Ancestor `json:"ancestors,omitempty"`
	Body      *Body      `json:"body,omitempty"`
}

// Space identifies the space a page lives in.
type Space struct {
	Key string `json:"key"`
}

// Version carries the page's monotonically increasing version number.
type Version struct {
	Number int `json:"number"`
}

// Ancestor is one entry in a page's ancestry chain, closest parent last.
type Ancestor struct {
	ID string `json:"id"`
}

// Body wraps the storage-format markup.
type Body struct {
	Storage Storage `json:"storage"`
}

// Storage is Confluence storage-format content.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// ParentID returns the page's direct parent id, or "" when the ancestry is
// empty.
func (p *Page) ParentID() string {
	if len(p.Ancestors) == 0 {
		return ""
	}
	return p.Ancestors[len(p.Ancestors)-1].ID
}

// SpaceKey returns the page's space key, or "" when unset.
func (p *Page) SpaceKey() string {
	if p.Space == nil {
		return ""
	}
	return p.Space.Key
}

// VersionNumber returns the page's version, or 0 when unset.
func (p *Page) VersionNumber() int {
	if p.Version == nil {
		return 0
	}
	return p.Version.Number
}

// StorageValue returns the page body markup, or "" when unset.
func (p *Page) StorageValue() string {
	if p.Body == nil {
		return ""
	}
	return p.Body.Storage.Value
}
