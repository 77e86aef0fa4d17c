package config

import (
	"fmt"
	"os"

	"github.com/cognicore/brandsift/pkg/brandsift/catalogue"
	"github.com/cognicore/brandsift/pkg/brandsift/ngwords"
	"github.com/cognicore/brandsift/pkg/brandsift/tokendict"
)

// Loader loads the dictionary files and constructs components
type Loader struct {
	TokensPath    string
	OverridesPath string
	NGWordsPath   string
	CataloguePath string
}

// Components holds all loaded dictionary components
type Components struct {
	Tokens    *tokendict.Dictionary
	NGWords   *ngwords.Dictionary
	Catalogue *catalogue.Index
	// NGLoaded is the number of NG-word lines read at load time.
	NGLoaded int
}

// Load reads all dictionary files and returns initialized components.
// Empty paths yield empty components rather than errors.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{
		Tokens:    tokendict.New(),
		NGWords:   ngwords.NewDictionary(),
		Catalogue: catalogue.NewIndex(),
	}

	if l.TokensPath != "" {
		f, err := os.Open(l.TokensPath)
		if err != nil {
			return nil, fmt.Errorf("load tokens: %w", err)
		}
		err = comp.Tokens.Load(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load tokens: %w", err)
		}
	}

	if l.OverridesPath != "" {
		f, err := os.Open(l.OverridesPath)
		if err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
		err = comp.Tokens.LoadOverrides(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
	}

	if l.NGWordsPath != "" {
		f, err := os.Open(l.NGWordsPath)
		if err != nil {
			return nil, fmt.Errorf("load ngwords: %w", err)
		}
		loaded, err := comp.NGWords.Load(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load ngwords: %w", err)
		}
		comp.NGLoaded = loaded
	}

	if l.CataloguePath != "" {
		f, err := os.Open(l.CataloguePath)
		if err != nil {
			return nil, fmt.Errorf("load catalogue: %w", err)
		}
		err = comp.Catalogue.Load(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load catalogue: %w", err)
		}
	}

	return comp, nil
}

// FromConfig builds a Loader from a parsed run configuration.
func FromConfig(cfg *Config) *Loader {
	return &Loader{
		TokensPath:    cfg.Paths.Tokens,
		OverridesPath: cfg.Paths.Overrides,
		NGWordsPath:   cfg.Paths.NGWords,
		CataloguePath: cfg.Paths.Catalogue,
	}
}
