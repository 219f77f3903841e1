package textclean

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "paragraphs and list items",
			in:   "<p>Hello <strong>world</strong></p><ul><li>Item 1</li><li>Item 2</li></ul>",
			want: "Hello world\n\n• Item 1\n• Item 2",
		},
		{
			name: "entities",
			in:   "Tom &amp; Jerry&#x27;s &lt;b&gt;show&lt;/b&gt; &quot;live&quot;&nbsp;now &#x2F; later",
			want: `Tom & Jerry's show "live" now / later`,
		},
		{
			name: "thread comment with bare paragraph tags",
			in:   `Acme Corp | Senior Engineer | San Francisco | REMOTE<p>We build <a href="https:&#x2F;&#x2F;acme.com" rel="nofollow">https:&#x2F;&#x2F;acme.com</a> tools.<p>Apply at jobs@acme.com`,
			want: "Acme Corp | Senior Engineer | San Francisco | REMOTE\n\nWe build https://acme.com tools.\n\nApply at jobs@acme.com",
		},
		{
			name: "anchor with label",
			in:   `See our <a href="https://x.io/jobs">careers page</a>.`,
			want: "See our careers page (https://x.io/jobs).",
		},
		{
			name: "line breaks collapse",
			in:   "a<br><br><br><br>b",
			want: "a\n\nb",
		},
		{
			name: "trailing spaces before break",
			in:   "line one   <br/>line two",
			want: "line one\nline two",
		},
		{
			name: "headings",
			in:   "<h2>About</h2><p>Text</p>",
			want: "About\n\nText",
		},
		{
			name: "div and list attributes",
			in:   `<div>First</div><div>Second</div><li style="">Third</li>`,
			want: "First\nSecond\n• Third",
		},
		{
			name: "plain text untouched",
			in:   "  Just text.  ",
			want: "Just text.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Errorf("Clean(%q)\n got  %q\n want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello <strong>world</strong></p><ul><li>Item 1</li></ul>",
		"&amp;lt;b&amp;gt;double encoded",
		"<<a>b>c",
		"a\n\n\n\n\nb",
		"x &nbsp; <br> y",
		`<a href="https://a.b">https://a.b</a>`,
		"no markup at all",
		"",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: %q then %q", in, once, twice)
		}
		if htmlTagRegex.MatchString(once) {
			t.Errorf("Clean(%q) = %q still contains a tag", in, once)
		}
		if strings.Contains(once, "\n\n\n") {
			t.Errorf("Clean(%q) = %q has more than one blank line", in, once)
		}
	}
}
