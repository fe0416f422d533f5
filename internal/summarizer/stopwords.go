package summarizer

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"strings"
)

//go:embed stopwords/*.txt
var stopWordFiles embed.FS

// loadStopWords reads the embedded list for language, one lowercase word per
// line.
func loadStopWords(language string) (map[string]struct{}, error) {
	raw, err := stopWordFiles.ReadFile("stopwords/" + language + ".txt")
	if err != nil {
		return nil, fmt.Errorf("no stop words for language %q", language)
	}

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words[w] = struct{}{}
	}
	return words, scanner.Err()
}
