package executor

import (
	"sort"
	"strings"
)

// Header names and media types used by the executor
const (
	HeaderAccept        = "Accept"
	HeaderAcceptCharset = "Accept-Charset"
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderUserAgent     = "User-Agent"

	MIMEJSON      = "application/json"
	MIMEForm      = "application/x-www-form-urlencoded"
	MIMETextPlain = "text/plain"

	CharsetUTF8 = "UTF-8"

	// DefaultUserAgent looks like a browser because some servers negotiate content on it
	DefaultUserAgent = "restexec/1.0 AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Headers maps header names to values. Keys are case-sensitive; Overlay
// and Del compare them the way HTTP does.
type Headers map[string]string

// DefaultHeaders returns the header set every request starts from
func DefaultHeaders() Headers {
	return Headers{
		HeaderAcceptCharset: CharsetUTF8,
		HeaderContentType:   MIMEForm,
		HeaderAccept:        MIMETextPlain,
		HeaderUserAgent:     DefaultUserAgent,
	}
}

// Clone returns a copy of h. A nil receiver yields an empty set.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Keys returns the header names in sorted order
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new set holding base overlaid by overlay.
// Neither argument is modified.
func Merge(base, overlay Headers) Headers {
	out := base.Clone()
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Del removes every entry whose name matches name ignoring case
func (h Headers) Del(name string) {
	for k := range h {
		if strings.EqualFold(k, name) {
			delete(h, k)
		}
	}
}

// Overlay is Merge with names compared ignoring case: an overlay entry
// replaces base entries spelled differently. Overlay keys are applied in
// sorted order so duplicates within overlay resolve the same way every time.
func Overlay(base, overlay Headers) Headers {
	out := base.Clone()
	for _, k := range overlay.Keys() {
		out.Del(k)
		out[k] = overlay[k]
	}
	return out
}
