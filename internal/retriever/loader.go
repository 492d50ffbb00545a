package retriever

import (
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Document is one knowledge base file converted to plain text. Category is
// the file name without extension and is what context labels and source
// references report.
type Document struct {
	Path     string
	Category string
	Text     string
}

// Loader reads markdown documents from a knowledge directory, applying
// include/exclude glob patterns.
type Loader struct {
	dir     string
	include []string
	exclude []string
}

// NewLoader creates a Loader rooted at dir. Empty include means everything
// is included; empty exclude means nothing is excluded.
func NewLoader(dir string, include, exclude []string) *Loader {
	return &Loader{dir: dir, include: include, exclude: exclude}
}

// Load walks the knowledge directory and returns all matching documents in
// lexical path order. A missing directory is an error; an empty one is not.
func (l *Loader) Load() ([]Document, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		return nil, fmt.Errorf("knowledge directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("knowledge directory %s is not a directory", l.dir)
	}

	var docs []Document
	err = filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != l.dir {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			return err
		}
		if !matchesAny(rel, l.include) && len(l.include) > 0 {
			return nil
		}
		if matchesAny(rel, l.exclude) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}

		text, err := markdownToText(data)
		if err != nil {
			return fmt.Errorf("converting %s: %w", rel, err)
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}

		base := filepath.Base(rel)
		docs = append(docs, Document{
			Path:     rel,
			Category: strings.TrimSuffix(base, filepath.Ext(base)),
			Text:     text,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// matchesAny checks if relPath matches any of the given glob patterns.
// It uses doublestar for ** support and also matches against the bare
// file name so patterns like "*.md" work at any depth.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

var blockBreaks = strings.NewReplacer(
	"</p>", "\n\n",
	"</h1>", "\n\n",
	"</h2>", "\n\n",
	"</h3>", "\n\n",
	"</h4>", "\n\n",
	"</h5>", "\n\n",
	"</h6>", "\n\n",
	"</li>", "\n",
	"</tr>", "\n",
	"</blockquote>", "\n\n",
	"</pre>", "\n\n",
	"<br>", "\n",
	"<br/>", "\n",
	"<br />", "\n",
)

// markdownToText renders markdown to HTML and strips the tags, leaving
// plain text with paragraph breaks. This normalizes away markdown syntax
// so chunk text reads cleanly in prompt context blocks.
func markdownToText(src []byte) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var buf strings.Builder
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	stripped := stripTags(blockBreaks.Replace(buf.String()))
	return collapseBlankLines(html.UnescapeString(stripped)), nil
}

func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blank = 0
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
