package provider

import (
	"strconv"
	"strings"
)

const scheme = "content://"

// URI addresses a provider collection or a single record within it.
type URI struct {
	Authority string
	Path      string
}

// NewURI builds content://<authority>/<collection>.
func NewURI(authority, collection string) URI {
	return URI{Authority: authority, Path: collection}
}

// Append returns a copy of u with segment added to the path.
func (u URI) Append(segment string) URI {
	if u.Path == "" {
		return URI{Authority: u.Authority, Path: segment}
	}
	return URI{Authority: u.Authority, Path: u.Path + "/" + segment}
}

// AppendID adds a numeric record id to the path.
func (u URI) AppendID(id int64) URI {
	return u.Append(strconv.FormatInt(id, 10))
}

// Segments returns the non-empty path segments.
func (u URI) Segments() []string {
	var out []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (u URI) String() string {
	if u.Path == "" {
		return scheme + u.Authority
	}
	return scheme + u.Authority + "/" + u.Path
}

// URIs groups the collection locators for one authority.
type URIs struct {
	Notes   URI
	NotesV2 URI
	Decks   URI
	Models  URI
}

// URIsFor returns the collection locators of the given authority.
func URIsFor(authority string) URIs {
	return URIs{
		Notes:   NewURI(authority, CollectionNotes),
		NotesV2: NewURI(authority, CollectionNotesV2),
		Decks:   NewURI(authority, CollectionDecks),
		Models:  NewURI(authority, CollectionModels),
	}
}
