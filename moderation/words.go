package moderation

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed censored/*
var censoredFolder embed.FS

// LoadEmbeddedWords reads every file under censored/ and returns the union of
// their words, one word per line, deduplicated.
func LoadEmbeddedWords() ([]string, error) {
	seen := make(map[string]struct{})
	var words []string

	err := fs.WalkDir(censoredFolder, "censored", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		f, err := censoredFolder.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			word := strings.TrimSpace(strings.ToLower(scanner.Text()))
			if word == "" {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
		return scanner.Err()
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}
