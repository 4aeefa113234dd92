package urlpattern

import "testing"

func TestDerivePrefix(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"entity detail", "https://yelp.com/biz/dolly-sf", "yelp.com/biz/"},
		{"entity detail with query", "https://yelp.com/biz/dolly-sf?osq=brunch", "yelp.com/biz/"},
		{"product detail", "https://shop.example.com/product/widget-3000/reviews", "shop.example.com/product/"},
		{"threaded discussion", "https://reddit.com/r/golang/comments/1abc23/some_title/", "reddit.com/r/golang/comments/1abc23/"},
		{"threaded discussion no slug", "https://reddit.com/r/golang/comments/1abc23", "reddit.com/r/golang/comments/1abc23/"},
		{"dated blog", "https://example.com/blog/2024/my-post", "example.com/blog/2024/"},
		{"dated news", "https://example.com/news/2019/05/story", "example.com/news/2019/"},
		{"blog without year", "https://example.com/blog/my-post", "example.com"},
		{"plain page", "https://example.com/about", "example.com"},
		{"root", "https://example.com/", "example.com"},
		{"host casing", "https://Example.COM/About", "example.com"},
		{"fragment stripped", "https://example.com/about#team", "example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DerivePrefix(tc.url); got != tc.want {
				t.Fatalf("DerivePrefix(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestDerivePrefixEntityBeatsDated(t *testing.T) {
	// Rule order matters: an entity keyword in the first segment wins
	// even if a year follows.
	got := DerivePrefix("https://example.com/listing/2024/foo")
	if got != "example.com/listing/" {
		t.Fatalf("expected entity rule to win, got %q", got)
	}
}

func TestStripScheme(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://yelp.com/biz/dolly-sf", "yelp.com/biz/dolly-sf"},
		{"http://Example.com/a?b=c", "example.com/a?b=c"},
		{"example.com/no-scheme", "example.com/no-scheme"},
	}
	for _, tc := range cases {
		if got := StripScheme(tc.url); got != tc.want {
			t.Fatalf("StripScheme(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
