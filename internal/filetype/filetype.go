// Package filetype classifies uploads by extension and MIME type.
package filetype

import (
	"fmt"
	"sort"
	"strings"
)

// MaxFileSizeMB is the upload size cap.
const MaxFileSizeMB = 50

// extToMIME is the upload allow-list: only these extensions are accepted.
var extToMIME = map[string]string{
	"txt":  "text/plain",
	"md":   "text/markdown",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"rtf":  "application/rtf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"heic": "image/heic",
}

// mimeToLabel maps canonical MIME types to short display labels.
var mimeToLabel = map[string]string{
	"text/plain":         "txt",
	"text/markdown":      "md",
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"application/rtf": "rtf",
	"image/png":       "png",
	"image/jpeg":      "jpg",
	"image/webp":      "webp",
	"image/gif":       "gif",
	"image/bmp":       "bmp",
	"image/tiff":      "tif",
	"image/heic":      "heic",
}

// AllowedExts returns the allow-listed extensions in sorted order.
func AllowedExts() []string {
	exts := make([]string, 0, len(extToMIME))
	for e := range extToMIME {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

// extOf returns the lowercased extension of name without the dot.
func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	ext := strings.ToLower(name[i+1:])
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// Resolve returns the canonical MIME type for a file: the declared type when
// present, otherwise a lookup by extension, otherwise application/octet-stream.
func Resolve(name, declared string) string {
	if declared != "" {
		return declared
	}
	if m, ok := extToMIME[extOf(name)]; ok {
		return m
	}
	return "application/octet-stream"
}

// ValidationError is a structured upload rejection.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validate checks a candidate upload against the extension allow-list and the
// size cap. These are the only two rejection conditions; content is never
// inspected. Returns nil when the upload is acceptable.
func Validate(name string, size int64) error {
	ext := extOf(name)
	if _, ok := extToMIME[ext]; !ok {
		if ext == "" {
			ext = "unknown"
		}
		return &ValidationError{Reason: fmt.Sprintf(".%s not allowed", ext)}
	}
	if size > MaxFileSizeMB*1024*1024 {
		return &ValidationError{Reason: fmt.Sprintf("> %d MB", MaxFileSizeMB)}
	}
	return nil
}

// Label returns a short display label for a file: the known label for its MIME
// type, else the coarse MIME category, else the uppercased extension, else
// "file".
func Label(mime, name string) string {
	if l, ok := mimeToLabel[mime]; ok {
		return l
	}
	if i := strings.IndexByte(mime, '/'); i > 0 {
		return mime[:i]
	}
	if ext := extOf(name); ext != "" {
		return strings.ToUpper(ext)
	}
	return "file"
}

// GroupKey is a coarse grouping of file types for panel segmentation.
type GroupKey string

const (
	GroupPDF   GroupKey = "pdf"
	GroupImage GroupKey = "image"
	GroupText  GroupKey = "text"
	GroupWord  GroupKey = "word"
	GroupRTF   GroupKey = "rtf"
	GroupOther GroupKey = "other"
)

// Group maps a MIME type to its coarse group.
func Group(mime string) GroupKey {
	switch {
	case mime == "application/pdf":
		return GroupPDF
	case strings.HasPrefix(mime, "image/"):
		return GroupImage
	case mime == "application/rtf" || mime == "text/rtf":
		return GroupRTF
	case strings.HasPrefix(mime, "text/"):
		return GroupText
	case mime == "application/msword",
		mime == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return GroupWord
	}
	return GroupOther
}

// GroupLabel returns the display heading for a group.
func GroupLabel(g GroupKey) string {
	switch g {
	case GroupPDF:
		return "PDFs"
	case GroupImage:
		return "Images"
	case GroupText:
		return "Text"
	case GroupWord:
		return "Word"
	case GroupRTF:
		return "RTF"
	}
	return "Other"
}
