package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Language represents a programming language
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageUnknown    Language = "unknown"
)

// SourceFile is one discovered file handed to the scan pipeline. Content is
// loaded once at discovery time and is immutable afterwards.
type SourceFile struct {
	Path     string
	Language Language
	Content  []byte
	Size     int64
}

// Scanner handles file discovery and filtering
type Scanner struct {
	excludeDirs   map[string]bool // Directory names to exclude (e.g., "node_modules")
	excludeGlobs  []string
	includeGlobs  []string
	includeHidden bool
	maxFileSize   int64 // bytes; files larger than this are skipped
	scanRoot      string
	logger        hclog.Logger
}

// DefaultMaxFileSize caps loaded files at 10 MB, matching the default
// max_file_size_mb configuration.
const DefaultMaxFileSize = 10 << 20

// NewScanner creates a new scanner with default exclusions
func NewScanner(logger hclog.Logger) *Scanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scanner{
		excludeDirs: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			"venv":         true,
			".git":         true,
			"build":        true,
			"dist":         true,
			"bin":          true,
			"out":          true,
			"target":       true,
			".next":        true,
			".cache":       true,
		},
		maxFileSize: DefaultMaxFileSize,
		logger:      logger,
	}
}

// SetExcludeGlobs sets glob patterns to exclude
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = globs
}

// SetIncludeGlobs sets glob patterns to include (overrides excludes)
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = globs
}

// SetIncludeHidden controls whether dotfiles and dot-directories are scanned.
func (s *Scanner) SetIncludeHidden(include bool) {
	s.includeHidden = include
}

// SetMaxFileSize overrides the file size cap. Zero or negative keeps the default.
func (s *Scanner) SetMaxFileSize(bytes int64) {
	if bytes > 0 {
		s.maxFileSize = bytes
	}
}

// AddExcludeDirs adds additional directory names to exclude from scanning
func (s *Scanner) AddExcludeDirs(dirs []string) {
	for _, dir := range dirs {
		s.excludeDirs[dir] = true
	}
}

// DetectLanguage determines the language from file extension
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".js", ".jsx", ".mjs":
		return LanguageJavaScript
	case ".ts", ".tsx":
		return LanguageTypeScript
	case ".go":
		return LanguageGo
	case ".py":
		return LanguagePython
	case ".rs":
		return LanguageRust
	case ".java":
		return LanguageJava
	default:
		return LanguageUnknown
	}
}

// isBinaryFile checks if a file is likely binary
func isBinaryFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	binaryExts := map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".pdf": true, ".zip": true, ".tar": true, ".gz": true,
		".exe": true, ".dll": true, ".so": true, ".dylib": true,
		".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
		".ico": true, ".svg": true, ".mp4": true, ".mp3": true,
	}
	return binaryExts[ext]
}

// matchesGlob checks if a path matches any of the glob patterns
func matchesGlob(path string, globs []string) bool {
	for _, glob := range globs {
		matched, _ := filepath.Match(glob, filepath.Base(path))
		if matched {
			return true
		}
		// Also try matching against full path
		matched, _ = filepath.Match(glob, path)
		if matched {
			return true
		}
	}
	return false
}

// shouldInclude checks if a file should be included based on include/exclude globs
func (s *Scanner) shouldInclude(path string) bool {
	// If include globs are specified, file must match at least one
	if len(s.includeGlobs) > 0 {
		return matchesGlob(path, s.includeGlobs)
	}
	// If exclude globs are specified, file must not match any
	if len(s.excludeGlobs) > 0 {
		return !matchesGlob(path, s.excludeGlobs)
	}
	return true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Scan recursively walks a directory, loads every supported source file and
// returns it with its detected language. Symlinks are not followed
// (filepath.Walk never descends into them).
func (s *Scanner) Scan(rootPath string) ([]SourceFile, error) {
	var files []SourceFile

	s.scanRoot = rootPath

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if s.excludeDirs[info.Name()] {
				return filepath.SkipDir
			}
			if !s.includeHidden && isHidden(info.Name()) && path != rootPath {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.includeHidden && isHidden(info.Name()) {
			return nil
		}

		if isBinaryFile(path) {
			return nil
		}

		if !s.shouldInclude(path) {
			return nil
		}

		lang := DetectLanguage(path)
		if lang == LanguageUnknown {
			return nil
		}

		if info.Size() > s.maxFileSize {
			s.logger.Debug("skipping oversized file", "path", path, "size", info.Size())
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read file", "path", path, "error", err)
			return nil
		}

		rel := path
		if r, err := filepath.Rel(rootPath, path); err == nil && r != "" {
			rel = filepath.ToSlash(r)
		}

		files = append(files, SourceFile{
			Path:     rel,
			Language: lang,
			Content:  content,
			Size:     info.Size(),
		})

		return nil
	})

	return files, err
}
