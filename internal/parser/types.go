package parser

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupportedInput is returned for inputs no provider can read
var ErrUnsupportedInput = errors.New("unsupported input")

// Language represents a declaration source format
type Language string

const (
	LanguageCSharp  Language = "csharp"
	LanguageYAML    Language = "yaml"
	LanguageJSON    Language = "json"
	LanguageUnknown Language = "unknown"
)

// DetectLanguage detects the source format from the file extension
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".cs":
		return LanguageCSharp
	case ".yaml", ".yml":
		return LanguageYAML
	case ".json":
		return LanguageJSON
	default:
		return LanguageUnknown
	}
}

// skippedDirs are never descended into when walking a source tree
var skippedDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	"node_modules": true,
}

// SkipDir reports whether a directory is excluded from source walks
func SkipDir(name string) bool {
	return skippedDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

// SkipFile reports whether a C# file is excluded from source walks: test
// files and program entry points
func SkipFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, "Tests.cs") || strings.HasSuffix(base, "Test.cs") || base == "Program.cs"
}

// skippedMemberPrefixes mark members that are test scaffolding themselves
var skippedMemberPrefixes = []string{"Test", "Arrange", "Act", "Assert"}

func skipMember(name string) bool {
	for _, prefix := range skippedMemberPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
