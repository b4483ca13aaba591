package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const essayCharLimit = 8000

// readEssayFile loads a plain-text essay. Other content types are rejected.
func readEssayFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read essay file: %w", err)
	}

	// csv, json, html and other text formats descend from text/plain.
	detected := mimetype.Detect(raw)
	for mt := detected; mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return string(raw), nil
		}
	}
	return "", fmt.Errorf("essay file must be plain text, got %s", detected.String())
}

func charCount(text string) int {
	return utf8.RuneCountInString(text)
}

func warnIfLong(app *cli, text string) {
	if n := charCount(text); n > essayCharLimit {
		app.logger.Warn().Int("characters", n).Int("limit", essayCharLimit).Msg("essay is longer than recommended")
	}
}
