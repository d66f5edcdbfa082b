package storage

import "testing"

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/teachers_lounge/42-notes.png": "teachers_lounge/42-notes",
		"https://res.cloudinary.com/demo/raw/upload/lounge/plan.pdf":                       "lounge/plan",
		"https://res.cloudinary.com/demo/image/upload/vacation/beach.jpg":                  "vacation/beach",
		"https://example.com/no-upload-segment.png":                                        "",
	}

	for in, want := range cases {
		if got := extractPublicID(in); got != want {
			t.Errorf("extractPublicID(%q) = %q, want %q", in, got, want)
		}
	}
}
