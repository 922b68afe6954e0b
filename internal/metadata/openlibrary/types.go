package openlibrary

// SearchResult is the parsed response of a search call.
type SearchResult struct {
	NumFound int
	Docs     []Doc
}

// Doc is one search result document. Open Library returns many more
// fields; we only decode the ones edition matching needs.
type Doc struct {
	Title      string   `json:"title"`
	AuthorName []string `json:"author_name"`
	ISBN       []string `json:"isbn"`
}

// rawSearchResponse mirrors the wire format of /search.json.
type rawSearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}
