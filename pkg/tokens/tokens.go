// Package tokens estimates prompt sizes for logging.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const encoding = "cl100k_base"

var (
	once sync.Once
	tk   *tiktoken.Tiktoken
)

// Count returns the cl100k token count of text, falling back to a
// four-characters-per-token guess when the encoding cannot be loaded.
func Count(text string) int {
	once.Do(func() {
		tk, _ = tiktoken.GetEncoding(encoding)
	})
	if tk == nil {
		return (len(text) + 3) / 4
	}
	return len(tk.Encode(text, nil, nil))
}
