package store

import "strings"

// ResetPrefixes are the key prefixes owned by the application
var ResetPrefixes = []string{
	"mats_rewards_",
	"transactions_",
	"invoices_",
	"invoice_drafts_",
	"invoice_metadata_",
}

// Matching returns the keys Reset would remove
func Matching(s *Store, all bool) []string {
	keys := s.Keys()
	if all {
		return keys
	}
	var out []string
	for _, k := range keys {
		if hasResetPrefix(k) {
			out = append(out, k)
		}
	}
	return out
}

// Reset deletes application keys (or every key when all is set) and returns what was removed
func Reset(s *Store, all bool) ([]string, error) {
	keys := Matching(s, all)
	if all {
		return keys, s.Clear()
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return keys, s.DeleteKeys(keys)
}

func hasResetPrefix(key string) bool {
	for _, p := range ResetPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
