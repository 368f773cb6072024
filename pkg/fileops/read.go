package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ValidateFileSizeLimit checks that filePath is a regular file no larger than maxSize bytes.
//
// Usage example:
//
//	// Limit files to 10MB
//	if err := fileops.ValidateFileSizeLimit("/path/to/file.txt", 10*1024*1024); err != nil {
//	    return fmt.Errorf("file too large: %w", err)
//	}
func ValidateFileSizeLimit(filePath string, maxSize int64) error {
	if maxSize <= 0 {
		return fmt.Errorf("invalid size limit: %d", maxSize)
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file does not exist: %s", filePath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if fileInfo.Size() > maxSize {
		return fmt.Errorf("file size %d bytes exceeds limit %d bytes", fileInfo.Size(), maxSize)
	}

	return nil
}

// ReadTextFile reads the whole file at filePath and returns it as UTF-8 text.
// Files larger than maxSize are refused before any content is read.
func ReadTextFile(filePath string, maxSize int64) (string, error) {
	if err := ValidateFileSizeLimit(filePath, maxSize); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return DecodeText(data), nil
}

// DecodeText converts data to a UTF-8 string. Valid UTF-8 is returned untouched; anything
// else goes through charset detection and is transcoded. When detection or decoding fails
// the raw bytes are returned as-is.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	name := DetectCharset(data)
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return string(data)
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// DetectCharset returns the lower-cased name of the most likely charset of data,
// defaulting to "utf-8".
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}
