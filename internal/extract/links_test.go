package extract

import (
	"reflect"
	"testing"

	"github.com/starford/muninn/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		target string
		kind   models.LinkKind
		want   string
	}{
		{"notes/other", models.LinkKindFile, "notes/other"},
		{"file:refs/doc.org", models.LinkKindFile, "refs/doc.org"},
		{"cite:doe2020", models.LinkKindCite, "doe2020"},
		{"citep:smith99", models.LinkKindCite, "smith99"},
		{"https://example.com/a", models.LinkKindWebsite, "https://example.com/a"},
		{"//cdn.example.com/x", models.LinkKindWebsite, "//cdn.example.com/x"},
		{"id:not-a-uuid", models.LinkKindID, "not-a-uuid"},
	}
	for _, c := range cases {
		kind, got := classify(c.target)
		if kind != c.kind || got != c.want {
			t.Errorf("classify(%q) = %s %q, want %s %q", c.target, kind, got, c.kind, c.want)
		}
	}
}

func TestClassify_UUIDNormalized(t *testing.T) {
	kind, got := classify("id:5B3E1E52-F4F1-4B80-A2C7-67C9ACC983D8")
	if kind != models.LinkKindID {
		t.Fatalf("kind = %s, want id", kind)
	}
	if got != "5b3e1e52-f4f1-4b80-a2c7-67c9acc983d8" {
		t.Errorf("target = %q, want canonical lowercase form", got)
	}
}

func TestLinks_NestedDescriptionResolvesInnermost(t *testing.T) {
	input := []byte("See [[https://outer.example][[[file:inner.org][Inner]]]] for details.\n")
	rec := Extract(input, "n.org", DefaultConfig())
	if len(rec.Links) != 1 {
		t.Fatalf("links = %v, want exactly one", rec.Links)
	}
	if rec.Links[0].Target != "inner.org" || rec.Links[0].Kind != models.LinkKindFile {
		t.Errorf("link = %+v, want innermost target inner.org", rec.Links[0])
	}
}

func TestLinks_MarkdownNestedImageLink(t *testing.T) {
	input := []byte("[![alt](img.png)](https://out.example)\n")
	rec := Extract(input, "n.md", DefaultConfig())
	if len(rec.Links) != 1 {
		t.Fatalf("links = %v, want one", rec.Links)
	}
	if rec.Links[0].Target != "img.png" {
		t.Errorf("target = %q, want innermost img.png", rec.Links[0].Target)
	}
}

func TestLinks_MarkdownInlineAndReference(t *testing.T) {
	input := []byte("Read [the docs](https://docs.example) and [the paper][1].\n\n[1]: https://ref.example/paper\n")
	rec := Extract(input, "n.md", DefaultConfig())
	want := []models.Link{
		{Source: "n.md", Target: "https://docs.example", Kind: models.LinkKindWebsite},
		{Source: "n.md", Target: "https://ref.example/paper", Kind: models.LinkKindWebsite},
	}
	if !reflect.DeepEqual(rec.Links, want) {
		t.Errorf("links = %v, want %v", rec.Links, want)
	}
}

func TestLinks_EmptyTargetSkipped(t *testing.T) {
	rec := Extract([]byte("see [[ ]] and [[|alias]]\n"), "n.md", DefaultConfig())
	if len(rec.Links) != 0 {
		t.Errorf("expected no links, got %v", rec.Links)
	}
}

func TestLinks_DuplicateTargetsDeduplicated(t *testing.T) {
	rec := Extract([]byte("[[Note A]] then [[Note A]] again\n"), "n.md", DefaultConfig())
	if len(rec.Links) != 1 {
		t.Errorf("links = %v, want one", rec.Links)
	}
}

func TestUnwrapTarget(t *testing.T) {
	cases := []struct{ in, want string }{
		{"cite:doe2020", "cite:doe2020"},
		{"[[cite:doe2020]]", "cite:doe2020"},
		{"[[https://x.example][Title]]", "https://x.example"},
		{"  [[file:a.org]]  ", "file:a.org"},
	}
	for _, c := range cases {
		if got := unwrapTarget(c.in); got != c.want {
			t.Errorf("unwrapTarget(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestScanBracketElement_Unterminated(t *testing.T) {
	if _, size := scanBracketElement("[[never closed"); size != 0 {
		t.Errorf("size = %d, want 0", size)
	}
}
