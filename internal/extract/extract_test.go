package extract

import (
	"errors"
	"reflect"
	"testing"

	"github.com/starford/muninn/internal/models"
)

func TestExtract_OrgDocument(t *testing.T) {
	input := []byte("#+title: Example Note\n" +
		"#+tags: research, golang\n" +
		"#+aliases: \"Example\" Alt\n" +
		"#+key: cite:doe2020\n" +
		"\n" +
		"* Heading [2/4]\n" +
		"Text with [[file:other.org][a link]] here.\n")

	rec := Extract(input, "notes/example.org", DefaultConfig())

	if len(rec.Titles) != 1 || rec.Titles[0] != "Example Note" {
		t.Errorf("titles = %v, want [Example Note]", rec.Titles)
	}
	if !reflect.DeepEqual(rec.Aliases, []string{"Example", "Alt"}) {
		t.Errorf("aliases = %v, want [Example Alt]", rec.Aliases)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"research", "golang"}) {
		t.Errorf("tags = %v, want [research golang]", rec.Tags)
	}
	if len(rec.Links) != 1 || rec.Links[0] != (models.Link{Source: "notes/example.org", Target: "other.org", Kind: models.LinkKindFile}) {
		t.Errorf("links = %v", rec.Links)
	}
	if len(rec.Refs) != 1 || rec.Refs[0] != (models.Ref{Kind: models.RefKindCite, Key: "doe2020"}) {
		t.Errorf("refs = %v", rec.Refs)
	}
}

func TestExtract_MarkdownFrontmatter(t *testing.T) {
	input := []byte("---\ntitle: Hello\ntags:\n  - go\n  - notes\n---\n# Hello\nBody [[Other Note]].\n")
	rec := Extract(input, "hello.md", DefaultConfig())

	if len(rec.Titles) != 1 || rec.Titles[0] != "Hello" {
		t.Errorf("titles = %v, want [Hello]", rec.Titles)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"go", "notes"}) {
		t.Errorf("tags = %v, want [go notes]", rec.Tags)
	}
	if len(rec.Links) != 1 || rec.Links[0].Target != "Other Note" || rec.Links[0].Kind != models.LinkKindFile {
		t.Errorf("links = %v", rec.Links)
	}
}

func TestTitles_ExplicitFieldWins(t *testing.T) {
	input := []byte("---\ntitle: Explicit\n---\n# Heading Title\n")
	rec := Extract(input, "n.md", DefaultConfig())
	if len(rec.Titles) != 1 || rec.Titles[0] != "Explicit" {
		t.Errorf("titles = %v, want the explicit field only", rec.Titles)
	}
}

func TestTitles_HeadlineCookieStripped(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"* [3/5] Heading\n", "Heading"},
		{"* Heading [40%]\n", "Heading"},
		{"* Tasks [2/4] done\n", "Tasks done"},
	}
	for _, c := range cases {
		rec := Extract([]byte(c.in), "n.org", DefaultConfig())
		if len(rec.Titles) != 1 || rec.Titles[0] != c.want {
			t.Errorf("Extract(%q).Titles = %v, want [%s]", c.in, rec.Titles, c.want)
		}
	}
}

func TestTitles_AliasSourceContributesAll(t *testing.T) {
	input := []byte("---\naliases:\n  - First Alias\n  - Second\n---\nno heading here\n")
	rec := Extract(input, "n.md", DefaultConfig())
	want := []string{"First Alias", "Second"}
	if !reflect.DeepEqual(rec.Titles, want) {
		t.Errorf("titles = %v, want %v", rec.Titles, want)
	}
	if !reflect.DeepEqual(rec.Aliases, want) {
		t.Errorf("aliases = %v, want %v", rec.Aliases, want)
	}
}

func TestTags_PropSeparator(t *testing.T) {
	rec := Extract([]byte("#+tags: a,b,c\n"), "n.org", DefaultConfig())
	if !reflect.DeepEqual(rec.Tags, []string{"a", "b", "c"}) {
		t.Errorf("tags = %v, want [a b c]", rec.Tags)
	}
}

func TestTags_HashtagSources(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TagSources = []TagSource{TagSourceHashtagFrontmatter}
	input := []byte("#before heading\n* Head\n#after heading\n")
	rec := Extract(input, "n.org", cfg)
	if !reflect.DeepEqual(rec.Tags, []string{"before"}) {
		t.Errorf("frontmatter hashtags = %v, want [before]", rec.Tags)
	}

	cfg.TagSources = []TagSource{TagSourceHashtag}
	rec = Extract(input, "n.org", cfg)
	if !reflect.DeepEqual(rec.Tags, []string{"before", "after"}) {
		t.Errorf("hashtags = %v, want [before after]", rec.Tags)
	}
}

func TestTags_DirectorySources(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TagSources = []TagSource{TagSourceAllDirectories}
	rec := Extract(nil, "research/golang/note.org", cfg)
	if !reflect.DeepEqual(rec.Tags, []string{"research", "golang"}) {
		t.Errorf("all-directories = %v", rec.Tags)
	}

	cfg.TagSources = []TagSource{TagSourceFirstDirectory}
	rec = Extract(nil, "research/golang/note.org", cfg)
	if !reflect.DeepEqual(rec.Tags, []string{"research"}) {
		t.Errorf("first-directory = %v", rec.Tags)
	}

	cfg.TagSources = []TagSource{TagSourceLastDirectory}
	rec = Extract(nil, "research/golang/note.org", cfg)
	if !reflect.DeepEqual(rec.Tags, []string{"golang"}) {
		t.Errorf("last-directory = %v", rec.Tags)
	}
}

func TestTags_RootDirectoryEmpty(t *testing.T) {
	for _, src := range []TagSource{TagSourceAllDirectories, TagSourceFirstDirectory, TagSourceLastDirectory} {
		cfg := DefaultConfig()
		cfg.TagSources = []TagSource{src}
		rec := Extract(nil, "note.org", cfg)
		if len(rec.Tags) != 0 {
			t.Errorf("source %s at root: tags = %v, want none", src, rec.Tags)
		}
	}
}

func TestTags_UnionDedupKeepsFirstSeenOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TagSources = []TagSource{TagSourceProp, TagSourceHashtag}
	input := []byte("#+tags: alpha, beta\nText #beta and #gamma.\n")
	rec := Extract(input, "n.org", cfg)
	if !reflect.DeepEqual(rec.Tags, []string{"alpha", "beta", "gamma"}) {
		t.Errorf("tags = %v, want [alpha beta gamma]", rec.Tags)
	}
}

func TestRefs_AllDeclarationsReturned(t *testing.T) {
	input := []byte("#+key: cite:doe2020\n#+key: https://example.com/paper\n#+key: [[cite:smith99]]\n")
	rec := Extract(input, "n.org", DefaultConfig())
	want := []models.Ref{
		{Kind: models.RefKindCite, Key: "doe2020"},
		{Kind: models.RefKindWebsite, Key: "https://example.com/paper"},
		{Kind: models.RefKindCite, Key: "smith99"},
	}
	if !reflect.DeepEqual(rec.Refs, want) {
		t.Errorf("refs = %v, want %v", rec.Refs, want)
	}
}

func TestExtract_StructuredDocument(t *testing.T) {
	input := []byte("title: Config Note\ntags: [infra, ops]\nkey: https://example.com/spec\nlinks:\n  - https://example.com\n")
	rec := Extract(input, "note.yaml", DefaultConfig())

	if len(rec.Titles) != 1 || rec.Titles[0] != "Config Note" {
		t.Errorf("titles = %v", rec.Titles)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"infra", "ops"}) {
		t.Errorf("tags = %v", rec.Tags)
	}
	if len(rec.Refs) != 1 || rec.Refs[0].Kind != models.RefKindWebsite {
		t.Errorf("refs = %v", rec.Refs)
	}
	if len(rec.Links) != 1 || rec.Links[0].Kind != models.LinkKindWebsite {
		t.Errorf("links = %v", rec.Links)
	}
}

func TestExtract_MalformedInputIsEmptyNotError(t *testing.T) {
	rec := Extract([]byte("]] [[ ::: {{{"), "junk.md", DefaultConfig())
	if len(rec.Titles)+len(rec.Aliases)+len(rec.Tags)+len(rec.Links)+len(rec.Refs) != 0 {
		t.Errorf("expected empty record, got %+v", rec)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestExtractReader_ReadErrorPropagates(t *testing.T) {
	_, err := ExtractReader(failingReader{}, "n.org", DefaultConfig())
	if err == nil {
		t.Fatal("expected error from failing reader")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.TagSources = []TagSource{"made-up"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown tag source should fail validation")
	}

	cfg = DefaultConfig()
	cfg.TagsField = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty tags field should fail validation")
	}
}
