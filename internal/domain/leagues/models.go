package leagues

import "strings"

// ID identifies a league in TheSportsDB namespace (e.g. "4328").
type ID string

func (id ID) String() string { return string(id) }

// Dedupe returns the unique IDs, keeping the first occurrence of each.
func Dedupe(ids []ID) []ID {
	seen := make(map[ID]struct{}, len(ids))
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// validID rejects IDs that cannot safely become part of a file name.
func validID(raw string) bool {
	if raw == "" || raw == "." || raw == ".." {
		return false
	}
	return !strings.ContainsAny(raw, `/\`) && !strings.Contains(raw, "..")
}
