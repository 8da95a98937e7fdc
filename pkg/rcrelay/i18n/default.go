package i18n

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed default.yaml
var defaultDictionary []byte

var defaultIndex = sync.OnceValues(func() (*Index, error) {
	d, err := LoadBytes(defaultDictionary)
	if err != nil {
		return nil, err
	}
	return NewIndexFromDictionary(d)
})

// Default returns the Index compiled from the built-in English and German
// dictionary. It is built on first use and shared afterwards.
func Default() *Index {
	idx, err := defaultIndex()
	if err != nil {
		panic(fmt.Sprintf("i18n: built-in dictionary is invalid: %v", err))
	}
	return idx
}

// DefaultDictionary returns a copy of the built-in dictionary source.
func DefaultDictionary() []byte {
	return append([]byte(nil), defaultDictionary...)
}
