package extract

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TitleSource names one strategy for deriving titles.
type TitleSource string

// Title sources, in the order the defaults try them.
const (
	TitleSourceProp     TitleSource = "title"
	TitleSourceHeadline TitleSource = "headline"
	TitleSourceAlias    TitleSource = "alias"
)

// TagSource names one strategy for collecting tags.
type TagSource string

// Tag sources.
const (
	TagSourceProp               TagSource = "prop"
	TagSourceHashtagFrontmatter TagSource = "hashtag-frontmatter"
	TagSourceHashtag            TagSource = "hashtag"
	TagSourceAllDirectories     TagSource = "all-directories"
	TagSourceFirstDirectory     TagSource = "first-directory"
	TagSourceLastDirectory      TagSource = "last-directory"
)

// Config controls a single extraction. Every call receives the
// configuration explicitly; the package keeps no ambient state.
type Config struct {
	// TitleSources are tried in order; the first one that yields a
	// non-empty result is authoritative for the whole record.
	TitleSources []TitleSource `yaml:"title_sources"`
	// TagSources all run; their results are unioned in source order.
	TagSources []TagSource `yaml:"tag_sources"`

	// Field-name overrides for the document-level metadata fields.
	TitleField string `yaml:"title_field"`
	TagsField  string `yaml:"tags_field"`
	AliasField string `yaml:"alias_field"`
	KeyField   string `yaml:"key_field"`

	TagSeparator  string `yaml:"tag_separator"`
	SlugSeparator string `yaml:"slug_separator"`
}

// DefaultConfig returns the extraction defaults: titles from the explicit
// title field, then the first headline, then aliases; tags from the tags
// field only.
func DefaultConfig() Config {
	return Config{
		TitleSources:  []TitleSource{TitleSourceProp, TitleSourceHeadline, TitleSourceAlias},
		TagSources:    []TagSource{TagSourceProp},
		TitleField:    "title",
		TagsField:     "tags",
		AliasField:    "aliases",
		KeyField:      "key",
		TagSeparator:  ",",
		SlugSeparator: "_",
	}
}

// Validate rejects unknown source names and empty field names.
func (c *Config) Validate() error {
	if err := validation.Validate(c.TitleSources,
		validation.Each(validation.In(TitleSourceProp, TitleSourceHeadline, TitleSourceAlias)),
	); err != nil {
		return fmt.Errorf("extract: title sources: %w", err)
	}
	if err := validation.Validate(c.TagSources,
		validation.Each(validation.In(TagSourceProp, TagSourceHashtagFrontmatter, TagSourceHashtag,
			TagSourceAllDirectories, TagSourceFirstDirectory, TagSourceLastDirectory)),
	); err != nil {
		return fmt.Errorf("extract: tag sources: %w", err)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.TitleField, validation.Required),
		validation.Field(&c.TagsField, validation.Required),
		validation.Field(&c.AliasField, validation.Required),
		validation.Field(&c.KeyField, validation.Required),
		validation.Field(&c.TagSeparator, validation.Required),
		validation.Field(&c.SlugSeparator, validation.Required),
	)
}
