package domain

import (
	"bytes"
	"errors"
	"path"
	"strings"
	"unicode/utf8"
)

// Errors returned (wrapped) by the content loader for files that are not text.
var (
	ErrBinaryExtension = errors.New("extension is declared binary")
	ErrBinaryContent   = errors.New("content contains NUL bytes")
	ErrNotUTF8         = errors.New("content is not valid UTF-8")
	ErrTooLarge        = errors.New("file exceeds size limit")
)

// sniffLen is how much of a file is inspected for NUL bytes.
const sniffLen = 8000

// binaryExts are extensions never treated as text.
var binaryExts = map[string]bool{
	// images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".ico": true,
	".bmp": true, ".tif": true, ".tiff": true, ".psd": true, ".heic": true,
	// documents
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".xz": true, ".bz2": true, ".7z": true,
	".rar": true, ".zst": true,
	// compiled / native
	".so": true, ".dylib": true, ".dll": true, ".exe": true, ".o": true, ".a": true, ".lib": true,
	".class": true, ".jar": true, ".war": true, ".wasm": true, ".pyc": true, ".pyo": true, ".bin": true,
	// media / fonts
	".mp3": true, ".mp4": true, ".mov": true, ".avi": true, ".wav": true, ".flac": true, ".ogg": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	// data stores
	".db": true, ".sqlite": true, ".sqlite3": true, ".parquet": true, ".npy": true, ".pkl": true,
}

// HasBinaryExtension reports whether rel's extension is on the binary list.
func HasBinaryExtension(rel string) bool {
	return binaryExts[strings.ToLower(path.Ext(rel))]
}

// CheckText returns nil when content is usable as text: no NUL byte in the
// first sniffLen bytes and valid UTF-8 throughout.
func CheckText(content []byte) error {
	head := content
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return ErrBinaryContent
	}
	if !utf8.Valid(content) {
		return ErrNotUTF8
	}
	return nil
}
