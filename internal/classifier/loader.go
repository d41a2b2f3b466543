package classifier

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

//go:embed lexicon_default.json
var defaultLexicon []byte

// lexiconFile is the on-disk weights format.
type lexiconFile struct {
	ID       string             `json:"id"`
	Bias     float64            `json:"bias"`
	Weights  map[string]float64 `json:"weights"`
	Negators []string           `json:"negators"`
}

// Default builds the model from the embedded lexicon.
func Default() (*LexiconModel, error) {
	return fromBytes(defaultLexicon, "builtin")
}

// LoadFile reads a JSON weights file and builds the model from it.
// A leading '~' in path is expanded to the user's home directory.
func LoadFile(path string) (*LexiconModel, error) {
	p, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return fromBytes(b, p)
}

func fromBytes(b []byte, src string) (*LexiconModel, error) {
	var f lexiconFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse weights %s: %w", src, err)
	}
	if len(f.Weights) == 0 {
		return nil, fmt.Errorf("weights %s: empty weight table", src)
	}
	for tok, w := range f.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weights %s: non-finite weight for %q", src, tok)
		}
	}
	id := f.ID
	if id == "" {
		id = filepath.Base(src)
	}
	negators := make(map[string]struct{}, len(f.Negators))
	for _, n := range f.Negators {
		negators[strings.ToLower(n)] = struct{}{}
	}
	return &LexiconModel{
		id:       id,
		bias:     f.Bias,
		weights:  f.Weights,
		negators: negators,
	}, nil
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
