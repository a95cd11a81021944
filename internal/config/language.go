package config

import (
	"path/filepath"
	"strings"
)

// extensionsByLanguage maps a language name to the file extensions accepted
// for analysis in that language. Unknown languages fall back to the C set.
var extensionsByLanguage = map[string][]string{
	"c":          {".c", ".h", ".cpp", ".hpp", ".cc", ".cxx", ".c++"},
	"cpp":        {".cpp", ".hpp", ".cc", ".cxx", ".c++", ".c", ".h"},
	"python":     {".py", ".pyx", ".pyi"},
	"java":       {".java", ".class", ".jar"},
	"javascript": {".js", ".jsx", ".mjs", ".cjs"},
	"typescript": {".ts", ".tsx"},
	"go":         {".go"},
	"rust":       {".rs", ".toml"},
	"php":        {".php", ".phtml", ".php3", ".php4", ".php5"},
	"csharp":     {".cs", ".csx"},
	"ruby":       {".rb", ".rbw"},
}

// Extensions returns the extension allow-list for a language.
func Extensions(language string) []string {
	if exts, ok := extensionsByLanguage[strings.ToLower(language)]; ok {
		return exts
	}
	return extensionsByLanguage["c"]
}

// SplitByExtension partitions files into those whose extension is allowed
// for the language and those that are not. Comparison is case-insensitive.
func SplitByExtension(files []string, language string) (valid, skipped []string) {
	allowed := Extensions(language)
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		ok := false
		for _, a := range allowed {
			if ext == a {
				ok = true
				break
			}
		}
		if ok {
			valid = append(valid, f)
		} else {
			skipped = append(skipped, f)
		}
	}
	return valid, skipped
}
