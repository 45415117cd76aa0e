package server

import (
	"net/url"
	"strings"
)

// ParseQuery splits a raw query string into key/value pairs. Pairs without
// "=" or with bad percent-escapes are skipped rather than failing the whole
// request. When a key repeats, the last value wins.
func ParseQuery(raw string) map[string]string {
	params := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, err := url.QueryUnescape(k)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		params[key] = value
	}
	return params
}
