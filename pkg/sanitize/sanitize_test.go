package sanitize

import "testing"

func TestSanitizer(t *testing.T) {
	s := New()

	if got := s.Content(`<b>hello</b><script>alert(1)</script>`); got != "<b>hello</b>" {
		t.Fatalf("Content() = %q", got)
	}
	if got := s.Plain(`  <i>Title</i> `); got != "Title" {
		t.Fatalf("Plain() = %q", got)
	}
	if got := s.Content(`<a href="javascript:alert(1)">x</a>`); got == `<a href="javascript:alert(1)">x</a>` {
		t.Fatalf("unsafe link kept: %q", got)
	}
}
