package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultKeywordsYAML []byte

// DictionaryEntry is one fallback translation. Order in the file is kept.
type DictionaryEntry struct {
	Term        string `yaml:"term"`
	Translation string `yaml:"translation"`
}

// Category is a navigation tab with its seed query.
type Category struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Seed  string `yaml:"seed" json:"seed"`
}

// Path returns the URL path of the category page.
func (c Category) Path() string {
	if c.ID == HomeCategory {
		return "/"
	}
	return "/" + c.ID
}

// HomeCategory is the id of the landing page tab.
const HomeCategory = "home"

// Keywords is the YAML keywords file
//
//	region: [vietnam, ...]
//	important: [tin tức, ...]
//	dictionary: [{term: Vietnam, translation: Việt Nam}, ...]
//	categories: [{id: home, label: Trang Chủ, seed: ...}, ...]
type Keywords struct {
	Region     []string          `yaml:"region"`
	Important  []string          `yaml:"important"`
	Dictionary []DictionaryEntry `yaml:"dictionary"`
	Categories []Category        `yaml:"categories"`
}

// DefaultKeywords returns the embedded defaults.
func DefaultKeywords() *Keywords {
	kw, err := decodeKeywords(bytes.NewReader(defaultKeywordsYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded defaults.yaml: %v", err))
	}
	return kw
}

// LoadKeywords reads a keywords file. An empty path returns the defaults.
// Sections missing from the file are taken from the defaults.
func LoadKeywords(path string) (*Keywords, error) {
	defaults := DefaultKeywords()
	if path == "" {
		return defaults, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer f.Close()

	kw, err := decodeKeywords(f)
	if err != nil {
		return nil, fmt.Errorf("parse keywords file %s: %w", path, err)
	}

	if len(kw.Region) == 0 {
		kw.Region = defaults.Region
	}
	if len(kw.Important) == 0 {
		kw.Important = defaults.Important
	}
	if len(kw.Dictionary) == 0 {
		kw.Dictionary = defaults.Dictionary
	}
	if len(kw.Categories) == 0 {
		kw.Categories = defaults.Categories
	}
	return kw, kw.validate()
}

func decodeKeywords(r io.Reader) (*Keywords, error) {
	var kw Keywords
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&kw); err != nil && err != io.EOF {
		return nil, err
	}
	return &kw, nil
}

func (k *Keywords) validate() error {
	seen := make(map[string]bool, len(k.Categories))
	for _, c := range k.Categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf("category with label %q has no id", c.Label)
		}
		if seen[id] {
			return fmt.Errorf("duplicate category id %q", id)
		}
		seen[id] = true
	}
	for _, d := range k.Dictionary {
		if strings.TrimSpace(d.Term) == "" {
			return fmt.Errorf("dictionary entry with empty term")
		}
	}
	return nil
}

// Category looks a category up by id.
func (k *Keywords) Category(id string) (Category, bool) {
	for _, c := range k.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Home returns the home category, or the first configured one.
func (k *Keywords) Home() Category {
	if c, ok := k.Category(HomeCategory); ok {
		return c
	}
	if len(k.Categories) > 0 {
		return k.Categories[0]
	}
	return Category{ID: HomeCategory}
}
