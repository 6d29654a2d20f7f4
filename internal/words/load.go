// internal/words/load.go
//
// Dictionary loaders.
//
// Sources:
//   - ""        → embedded default list (assets/dictionary.txt).
//   - "*.json"  → JSON object keyed by word; values are ignored.
//   - otherwise → plain text, one word per line, '#' comments allowed.

package words

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/m36h4/word-transform-game/assets"
)

// ErrEmpty is returned when a source yields no usable words.
var ErrEmpty = errors.New("words: dictionary is empty")

// Load reads a dictionary from path, or the embedded default when path is empty.
func Load(path string) (*Dictionary, error) {
	if path == "" {
		raw, err := assets.Dictionary()
		if err != nil {
			return nil, fmt.Errorf("read embedded dictionary: %w", err)
		}
		return fromList(ReadLines(bytes.NewReader(raw)))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		list, err := ReadJSON(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return fromList(list, nil)
	}
	return fromList(ReadLines(f))
}

// ReadLines returns the non-blank, non-comment lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// ReadJSON decodes an object keyed by word and returns its keys.
func ReadJSON(r io.Reader) ([]string, error) {
	var m map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return lo.Keys(m), nil
}

func fromList(list []string, err error) (*Dictionary, error) {
	if err != nil {
		return nil, err
	}
	d := New(list)
	if d.Len() == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}
