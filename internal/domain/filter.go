package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Query parameter names accepted by task listings.
const (
	ParamSearch       = "search"
	ParamLegacySearch = "q" // Older links; ParamSearch wins when both are present
	ParamStatus       = "status"
	ParamPriority     = "priority"
	ParamTaskType     = "task_type"
	ParamAssignee     = "assignee"
	ParamPage         = "page"
)

// FilterFields lists the form fields of a task filter in display order.
var FilterFields = []string{ParamSearch, ParamStatus, ParamPriority, ParamTaskType, ParamAssignee}

// RawSearch extracts the best-effort search text straight from raw parameters:
// the trimmed "search" value, falling back to the legacy "q" key. Invalid UTF-8
// and NUL bytes are stripped so the text can always be bound as a parameter.
func RawSearch(values url.Values) string {
	if s := sanitizeText(values.Get(ParamSearch)); s != "" {
		return s
	}
	return sanitizeText(values.Get(ParamLegacySearch))
}

// IsStorableText reports whether s is valid UTF-8 without NUL bytes, which
// PostgreSQL text columns and parameters reject.
func IsStorableText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

func sanitizeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// StickyQuery re-encodes the active filter parameters for outgoing links.
// The page parameter is dropped and a lone legacy "q" is renamed to "search".
// Keys are encoded in sorted order.
func StickyQuery(values url.Values) string {
	sticky := make(url.Values, len(values))
	for k, v := range values {
		if k == ParamPage {
			continue
		}
		sticky[k] = append([]string(nil), v...)
	}

	if q, ok := sticky[ParamLegacySearch]; ok {
		if _, hasSearch := sticky[ParamSearch]; !hasSearch {
			sticky[ParamSearch] = q
			delete(sticky, ParamLegacySearch)
		}
	}

	return sticky.Encode()
}
