// Package langdetect decides whether files and Markdown code blocks hold
// C source. It wraps go-enry with a few cheap patterns that settle the
// common cases before the classifier runs.
package langdetect

import (
	"bytes"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names as returned by Detect.
const (
	LangC    = "c"
	LangCPP  = "c++"
	LangGo   = "go"
	LangText = "text"
	langBash = "bash"
)

//nolint:gochecknoglobals // Read-only classifier inputs.
var (
	// candidates limits the classifier to languages that show up in
	// documentation next to C.
	candidates = []string{
		"C", "C++", "Objective-C", "Go", "Rust", "Java", "Python",
		"Shell", "JavaScript", "JSON", "YAML", "Makefile", "Markdown",
	}

	cppMarkers = []string{"std::", "template<", "template <", "namespace ", "class ", "#include <iostream>"}

	cDecl = regexp.MustCompile(`(?m)^\s*(?:static\s+|extern\s+|const\s+|unsigned\s+|signed\s+)*` +
		`(?:void|char|short|int|long|float|double|struct\s+\w+)\s*\**\s*\w+\s*(?:\(|=|;|\[)`)
)

// IsC reports whether the file at path is C source. The extension decides
// when it is unambiguous; for headers and unknown extensions the content
// is consulted.
func IsC(path string, content []byte) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".c" {
		return true
	}

	langs := enry.GetLanguagesByExtension(path, content, nil)
	if !slices.Contains(langs, "C") {
		return false
	}
	if len(langs) == 1 || len(content) == 0 {
		return true
	}
	return Detect(content) == LangC
}

// IsFenceTag reports whether a fence info string names one of languages.
// Tags are compared case-insensitively and enry aliases are resolved, so
// "C" and "c" both match "c".
func IsFenceTag(info string, languages []string) bool {
	tag := strings.ToLower(strings.TrimSpace(info))
	if i := strings.IndexAny(tag, " \t{"); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" {
		return false
	}
	if lang, ok := enry.GetLanguageByAlias(tag); ok {
		tag = strings.ToLower(lang)
	}
	for _, l := range languages {
		if strings.EqualFold(l, tag) {
			return true
		}
	}
	return false
}

// Detect returns the language of a code snippet, or "text" when it cannot
// tell with confidence.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return LangText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectByPattern(trimmed); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

func detectByPattern(trimmed []byte) string {
	if bytes.HasPrefix(trimmed, []byte("package ")) {
		return LangGo
	}

	s := string(trimmed)
	for _, m := range cppMarkers {
		if strings.Contains(s, m) {
			return LangCPP
		}
	}
	if strings.HasPrefix(s, "#include") || strings.HasPrefix(s, "#define") || cDecl.MatchString(s) {
		return LangC
	}
	return ""
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
