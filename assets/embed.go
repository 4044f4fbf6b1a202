// Package assets embeds the built-in corpora: letter word banks, the letter
// glossary, equation lists per category and the idiom dictionary.
package assets

import (
	"bufio"
	"embed"
	"encoding/json"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed letters/*.txt letters/glossary.json equations/*.json idioms.json
var FS embed.FS

// ReadLines returns the non-empty, non-comment lines of name, lowercased.
func ReadLines(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// ReadJSON decodes name into v.
func ReadJSON(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// LetterBanks lists the embedded word bank names, sorted.
func LetterBanks() []string {
	matches, _ := fs.Glob(FS, "letters/*.txt")
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSuffix(path.Base(m), ".txt"))
	}
	sort.Strings(out)
	return out
}

// LetterBank returns the words of an embedded bank.
func LetterBank(name string) ([]string, error) {
	return ReadLines(FS, "letters/"+name+".txt")
}

// Glossary maps letter words to short English definitions.
func Glossary() (map[string]string, error) {
	out := map[string]string{}
	err := ReadJSON(FS, "letters/glossary.json", &out)
	return out, err
}

// Equations returns the equations of a category keyed by length ("5", "12", ...).
func Equations(category string) (map[string][]string, error) {
	out := map[string][]string{}
	err := ReadJSON(FS, "equations/"+category+".json", &out)
	return out, err
}

// Idiom is one dictionary record. Pinyin is space separated with tone marks.
type Idiom struct {
	Word        string `json:"word"`
	Pinyin      string `json:"pinyin"`
	Explanation string `json:"explanation"`
}

// Idioms returns the embedded idiom dictionary.
func Idioms() ([]Idiom, error) {
	var out []Idiom
	err := ReadJSON(FS, "idioms.json", &out)
	return out, err
}
