// Package extract turns uploaded attachments into plain text for analysis.
package extract

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ErrUnsupportedFormat marks attachment types the analyzer cannot read.
var ErrUnsupportedFormat = errors.New("unsupported attachment format")

// Text extracts plain text from attachment content. The format is chosen
// by the file name extension.
func Text(name string, data []byte) (string, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".txt", ".md", ".text":
		return plainText(data)
	case ".html", ".htm":
		return htmlText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path.Ext(name))
	}
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("attachment is not valid UTF-8 text")
	}
	return strings.TrimSpace(string(data)), nil
}

// htmlText walks the token stream and keeps only visible text, skipping
// script and style bodies.
func htmlText(data []byte) (string, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(string(data)))

	var b strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF is the normal end of the document; the tokenizer
			// recovers from malformed markup on its own.
			return collapseWhitespace(b.String()), nil
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenElement(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenElement(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}

func isHiddenElement(name string) bool {
	switch name {
	case "script", "style", "noscript", "head":
		return true
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
