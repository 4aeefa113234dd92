// Package urlpattern generalizes concrete URLs into reusable prefix
// keys for learned strategy routing. The goal is a prefix specific
// enough to cover the same kind of page (the next article in the same
// blog year, another business detail page) without giving every
// distinct URL its own entry.
package urlpattern

import (
	"net/url"
	"regexp"
	"strings"
)

// entityKeywords mark "detail page" path roots like /biz/<slug>.
var entityKeywords = map[string]bool{
	"biz":     true,
	"place":   true,
	"listing": true,
	"product": true,
	"item":    true,
	"profile": true,
	"company": true,
}

// datedKeywords mark "dated content" path roots like /blog/<year>/.
var datedKeywords = map[string]bool{
	"blog":    true,
	"news":    true,
	"posts":   true,
	"archive": true,
}

var yearRe = regexp.MustCompile(`^(19|20)\d{2}$`)

// DerivePrefix generalizes a URL into a scheme-stripped prefix key.
// Rules apply in priority order; the first match wins:
//
//  1. entity detail (/biz/<slug>)            -> host/biz/
//  2. threaded discussion (/r/<c>/comments/<id>/...) -> host/r/<c>/comments/<id>/
//  3. dated content (/blog/<year>/...)       -> host/blog/<year>/
//  4. anything else                          -> host
//
// Query strings and fragments never contribute to the prefix.
func DerivePrefix(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return StripScheme(rawURL)
	}
	host := strings.ToLower(parsed.Host)
	segs := splitPath(parsed.Path)

	if len(segs) >= 2 && entityKeywords[segs[0]] {
		return host + "/" + segs[0] + "/"
	}
	if len(segs) >= 4 && segs[0] == "r" && segs[2] == "comments" {
		return host + "/r/" + segs[1] + "/comments/" + segs[3] + "/"
	}
	if len(segs) >= 2 && datedKeywords[segs[0]] && yearRe.MatchString(segs[1]) {
		return host + "/" + segs[0] + "/" + segs[1] + "/"
	}
	return host
}

// StripScheme removes the scheme from a URL so it can be compared
// against stored prefixes with plain string matching. The host part is
// lowercased; path, query and fragment are kept as given.
func StripScheme(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		for _, scheme := range []string{"https://", "http://"} {
			if strings.HasPrefix(strings.ToLower(trimmed), scheme) {
				return trimmed[len(scheme):]
			}
		}
		return trimmed
	}
	rest := parsed.Path
	if parsed.RawQuery != "" {
		rest += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		rest += "#" + parsed.Fragment
	}
	return strings.ToLower(parsed.Host) + rest
}

func splitPath(path string) []string {
	var segs []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
