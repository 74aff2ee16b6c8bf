package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// LookupEncoding resolves a charset name to an encoding. An empty name is
// the platform default, UTF-8. IANA names are tried first, then the WHATWG
// labels used by browsers (which cover aliases such as "gbk" and "latin1").
func LookupEncoding(name string) (encoding.Encoding, error) {
	if isUTF8(name) {
		return unicode.UTF8, nil
	}
	name = strings.TrimSpace(name)
	for _, idx := range []*ianaindex.Index{ianaindex.IANA, ianaindex.MIME} {
		enc, err := idx.Encoding(name)
		if err == nil && enc != nil {
			return enc, nil
		}
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}

// CanonicalEncoding returns the IANA name for the given charset.
func CanonicalEncoding(name string) (string, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		return DefaultEncoding, nil
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		// Known to x/text but not registered with IANA
		return strings.ToUpper(strings.TrimSpace(name)), nil
	}
	return canonical, nil
}

// IsUTF8 reports whether the named charset is UTF-8.
func IsUTF8(name string) bool {
	enc, err := LookupEncoding(name)
	return err == nil && enc == unicode.UTF8
}
