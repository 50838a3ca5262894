package review

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrEmptyToken      = errors.New("empty comment token")
)

var defaultTokens = map[string]string{
	"typescript":      "//",
	"javascript":      "//",
	"typescriptreact": "//",
	"javascriptreact": "//",
	"go":              "//",
	"java":            "//",
	"c":               "//",
	"cpp":             "//",
	"csharp":          "//",
	"rust":            "//",
	"kotlin":          "//",
	"swift":           "//",

	"python":      "#",
	"ruby":        "#",
	"shellscript": "#",
	"yaml":        "#",
	"perl":        "#",
	"r":           "#",

	"sql":     "--",
	"lua":     "--",
	"haskell": "--",
}

var extLanguages = map[string]string{
	".ts":    "typescript",
	".mts":   "typescript",
	".cts":   "typescript",
	".tsx":   "typescriptreact",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".jsx":   "javascriptreact",
	".py":    "python",
	".pyi":   "python",
	".go":    "go",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rs":    "rust",
	".kt":    "kotlin",
	".swift": "swift",
	".rb":    "ruby",
	".sh":    "shellscript",
	".bash":  "shellscript",
	".yaml":  "yaml",
	".yml":   "yaml",
	".pl":    "perl",
	".r":     "r",
	".sql":   "sql",
	".lua":   "lua",
	".hs":    "haskell",
}

// Syntax is a comment syntax profile: one line-comment token per language.
// It is immutable once built and safe for concurrent use.
type Syntax struct {
	tokens map[string]string
}

func DefaultSyntax() *Syntax {
	return &Syntax{tokens: maps.Clone(defaultTokens)}
}

// WithOverrides returns a copy of s with extra or replaced tokens.
func (s *Syntax) WithOverrides(overrides map[string]string) (*Syntax, error) {
	tokens := maps.Clone(s.tokens)
	for lang, tok := range overrides {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, fmt.Errorf("%w for %q", ErrEmptyToken, lang)
		}
		tokens[normalizeLanguage(lang)] = tok
	}
	return &Syntax{tokens: tokens}, nil
}

// Token returns the line-comment token for language. Unknown languages are an
// error; the profile never guesses.
func (s *Syntax) Token(language string) (string, error) {
	tok, ok := s.tokens[normalizeLanguage(language)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	return tok, nil
}

func (s *Syntax) Languages() []string {
	return slices.Sorted(maps.Keys(s.tokens))
}

func (s *Syntax) Tokens() map[string]string {
	return maps.Clone(s.tokens)
}

// LanguageForPath maps a file name to a language identifier by extension.
func LanguageForPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extLanguages[ext]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("%w: no language for %q", ErrUnknownLanguage, filepath.Base(path))
}

func normalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
