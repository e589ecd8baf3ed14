package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rewriter modes. ModeStripTitles removes <title> from every page;
// ModePreserveTitles rewrites index page titles and emits metadata.xml and
// title.txt next to them.
const (
	ModeStripTitles    = "strip-titles"
	ModePreserveTitles = "preserve-titles"
)

// Config describes the conventions of the source document set.
type Config struct {
	Mode    string   `yaml:"mode"`
	IDs     IDs      `yaml:"ids"`
	Markers Markers  `yaml:"markers"`
	Charset Charset  `yaml:"charset"`
	Meta    Metadata `yaml:"metadata"`

	SearchPage      string   `yaml:"search_page"`
	RedirectToIndex []string `yaml:"redirect_to_index"`
	StubPrefix      string   `yaml:"stub_prefix"`
	ManifestName    string   `yaml:"manifest_name"`
	TitlePrefix     string   `yaml:"title_prefix"`
	IndexPath       string   `yaml:"index_path"`
}

// IDs are the element identifiers used by the source site template.
type IDs struct {
	TOC          string `yaml:"toc"`
	Header       string `yaml:"header"`
	Content      string `yaml:"content"`
	SectionTitle string `yaml:"section_title"`
}

// Markers identify inline tables of contents and the page footer.
type Markers struct {
	ChapterTOCStart  string `yaml:"chapter_toc_start"`
	ChapterTOCEnd    string `yaml:"chapter_toc_end"`
	ReturnToTopClass string `yaml:"return_to_top_class"`
	ReturnToTopText  string `yaml:"return_to_top_text"`
}

// Charset is the declared encoding rewrite applied to Content-Type metas.
type Charset struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Metadata is the bibliographic record written to metadata.xml.
type Metadata struct {
	Language string `yaml:"language"`
	Creator  string `yaml:"creator"`
	Rights   string `yaml:"rights"`
}

// Default returns the configuration for the TOGAF Standard 10 HTML export.
func Default() *Config {
	return &Config{
		Mode: ModeStripTitles,
		IDs: IDs{
			TOC:          "toc",
			Header:       "header",
			Content:      "content",
			SectionTitle: "toctitle",
		},
		Markers: Markers{
			ChapterTOCStart:  "chapter toc start",
			ChapterTOCEnd:    "chapter toc end",
			ReturnToTopClass: "returntotop",
			ReturnToTopText:  "Return to Top",
		},
		Charset: Charset{From: "iso-8859-1", To: "utf-8"},
		Meta: Metadata{
			Language: "en-us",
			Creator:  "The Open Group",
			Rights:   "Copyright © 1999-2022 The Open Group, All Rights Reserved.",
		},
		SearchPage:   "search.html",
		StubPrefix:   "sectionheader",
		ManifestName: "paths.txt",
		TitlePrefix:  "TOGAF® Standard 10 - ",
	}
}

// DefaultPath returns the config file named by TOGAFCLEANUP_CONFIG, or ""
// when the built-in defaults should be used.
func DefaultPath() string {
	return os.Getenv("TOGAFCLEANUP_CONFIG")
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeStripTitles, ModePreserveTitles:
	default:
		return fmt.Errorf("config mode %q is not one of %s, %s", c.Mode, ModeStripTitles, ModePreserveTitles)
	}
	if c.IDs.TOC == "" {
		return errors.New("config ids.toc is required")
	}
	if c.IDs.Content == "" {
		return errors.New("config ids.content is required")
	}
	if c.Markers.ChapterTOCStart == "" || c.Markers.ChapterTOCEnd == "" {
		return errors.New("config chapter toc markers are required")
	}
	if c.Markers.ReturnToTopClass == "" && c.Markers.ReturnToTopText == "" {
		return errors.New("config needs a return-to-top class or text")
	}
	if c.StubPrefix == "" {
		return errors.New("config stub_prefix is required")
	}
	if c.ManifestName == "" {
		return errors.New("config manifest_name is required")
	}
	return nil
}

// PreserveTitles reports whether the title-preserving rewriter is selected.
func (c *Config) PreserveTitles() bool {
	return c.Mode == ModePreserveTitles
}

// Redirects reports whether p is a legacy path that should point at its
// folder's index page instead.
func (c *Config) Redirects(p string) bool {
	for _, r := range c.RedirectToIndex {
		if r == p {
			return true
		}
	}
	return false
}
