package sampling

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	merkle "github.com/JaechanAnUMD/merkletree-demo"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset maps leaf keys to their values.
type Dataset map[int64]rune

// Letter returns the n-th capital letter of the Latin alphabet, wrapping
// around every 26 letters: Letter(1) is 'A', Letter(27) is 'A' again.
func Letter(n int64) rune {
	m := (n - 1) % 26
	if m < 0 {
		m += 26
	}
	return 'A' + rune(m)
}

// LetterDataset returns keys 1..size with the value Letter(key+offset).
func LetterDataset(size int, offset int64) Dataset {
	d := make(Dataset, size)
	for k := int64(1); k <= int64(size); k++ {
		d[k] = Letter(k + offset)
	}
	return d
}

// Entries returns the dataset sorted by key.
func (d Dataset) Entries() []merkle.Entry {
	entries := make([]merkle.Entry, 0, len(d))
	for k, v := range d {
		entries = append(entries, merkle.Entry{Key: k, Value: v})
	}
	slices.SortFunc(entries, func(a, b merkle.Entry) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return entries
}

// ParseDataset reads a JSON object mapping decimal keys to one-character
// strings, e.g. {"1": "A", "2": "B"}.
func ParseDataset(data []byte) (Dataset, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidDataset)
	}
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrInvalidDataset, obj.Type)
	}

	d := make(Dataset)
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		var k int64
		k, err = strconv.ParseInt(key.String(), 10, 64)
		if err != nil {
			err = fmt.Errorf("%w: key %q is not an integer", ErrInvalidDataset, key.String())
			return false
		}
		if _, ok := d[k]; ok {
			err = fmt.Errorf("%w: duplicate key %d", ErrInvalidDataset, k)
			return false
		}
		if value.Type != gjson.String {
			err = fmt.Errorf("%w: value of key %d is not a string", ErrInvalidDataset, k)
			return false
		}
		s := value.String()
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError || size != len(s) {
			err = fmt.Errorf("%w: value of key %d must be exactly one character, got %q", ErrInvalidDataset, k, s)
			return false
		}
		d[k] = r
		return true
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// LoadDataset reads and parses a JSON dataset file.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset: %w", err)
	}
	return ParseDataset(data)
}
