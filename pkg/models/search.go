package models

// SearchResult is one web search hit used as identity evidence.
type SearchResult struct {
	Query   string `json:"query,omitempty"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
