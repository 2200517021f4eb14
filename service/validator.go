package service

import (
	"path/filepath"
	"strings"
)

// FileValidator checks uploaded filenames against an extension allow-list.
type FileValidator struct {
	allowed []string
}

// NewFileValidator normalises extensions to lowercase without a leading dot.
func NewFileValidator(extensions []string) FileValidator {
	allowed := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed = append(allowed, ext)
		}
	}
	return FileValidator{allowed: allowed}
}

// Allowed reports whether the text after the last "." is an allowed
// extension. Names without a dot, and names that are paths rather than a
// single file name, are rejected.
func (v FileValidator) Allowed(filename string) bool {
	if filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		return false
	}
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	ext := strings.ToLower(filename[i+1:])
	for _, a := range v.allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// Extensions returns the allow-list.
func (v FileValidator) Extensions() []string {
	return append([]string(nil), v.allowed...)
}

// Accept renders the list for an <input accept> attribute.
func (v FileValidator) Accept() string {
	exts := make([]string, len(v.allowed))
	for i, a := range v.allowed {
		exts[i] = "." + a
	}
	return strings.Join(exts, ",")
}

func (v FileValidator) String() string {
	return strings.Join(v.allowed, ", ")
}

// contentTypeFor maps the extension of name to a MIME type for the upload.
func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".csv":
		return "text/csv"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
