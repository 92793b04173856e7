package entity

import "sort"

// RepositoryIDs maps a repository name, as reported by the instance, to its
// opaque GraphQL ID. It lives for a single invocation.
type RepositoryIDs map[string]string

// IDs returns every identifier in the mapping. Names listed in order come
// first in that order; entries the instance returned under a different name
// follow, sorted by name.
func (r RepositoryIDs) IDs(order []string) []string {
	ids := make([]string, 0, len(r))
	used := make(map[string]bool, len(r))
	for _, name := range order {
		if id, ok := r[name]; ok && !used[name] {
			used[name] = true
			ids = append(ids, id)
		}
	}

	rest := make([]string, 0, len(r)-len(used))
	for name := range r {
		if !used[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		ids = append(ids, r[name])
	}
	return ids
}

// ContextChunk is a bounded excerpt of a file returned by the context search.
type ContextChunk struct {
	Path           string `json:"path"`
	StartLine      int    `json:"start_line"`
	EndLine        int    `json:"end_line"`
	Content        string `json:"content"`
	RepositoryID   string `json:"repository_id,omitempty"`
	RepositoryName string `json:"repository_name,omitempty"`
	CommitOID      string `json:"commit_oid,omitempty"`
	URL            string `json:"url,omitempty"`
}
