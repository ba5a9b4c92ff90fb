package executor

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var lineBreaks = strings.NewReplacer("\r\n", "", "\r", "", "\n", "")

// ResponseCharset extracts the charset parameter from a Content-Type value.
// The second result is false when no charset is declared.
func ResponseCharset(contentType string) (string, bool) {
	if contentType == "" {
		return "", false
	}
	for _, param := range strings.Split(strings.ReplaceAll(contentType, " ", ""), ";") {
		if strings.HasPrefix(param, "charset=") {
			return strings.SplitN(param, "=", 2)[1], true
		}
	}
	return "", false
}

// DecodeBody reads body into text. The second result is false when the body
// is absent, which is distinct from a present but empty body.
//
// With a declared charset the text is decoded through that charset and line
// terminators are dropped, so multi-line payloads come back as one line.
// Without one the bytes are taken as UTF-8.
func DecodeBody(body io.Reader, label string, declared bool) (string, bool, error) {
	if body == nil || body == http.NoBody {
		return "", false, nil
	}

	if !declared {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", false, fmt.Errorf("failed to read response body: %w", err)
		}
		return string(data), true, nil
	}

	enc := lookupEncoding(strings.Trim(label, `"'`))
	if enc == nil {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownCharset, label)
	}

	data, err := io.ReadAll(transform.NewReader(body, enc.NewDecoder()))
	if err != nil {
		return "", false, fmt.Errorf("failed to read response body as %s: %w", label, err)
	}
	return lineBreaks.Replace(string(data)), true, nil
}

// lookupEncoding resolves IANA registered names exactly, so ISO-8859-1 stays
// ISO-8859-1, and falls back to the WHATWG labels browsers accept.
func lookupEncoding(label string) encoding.Encoding {
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc
	}
	enc, _ := charset.Lookup(label)
	return enc
}
