// Package uploads decides where an uploaded file is stored and under which
// name.
package uploads

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Classify maps a multipart field name to its storage folder and checks the
// MIME type against the allow-list. The MIME check runs first.
func Classify(field, mime string) (Folder, error) {
	if !AllowedMIME(mime) {
		return "", ErrUnsupportedMIME
	}
	folder, ok := fieldFolders[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedField, field)
	}
	return folder, nil
}

func AllowedMIME(mime string) bool {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mime)), ";")
	return allowedMIME[strings.TrimSpace(base)]
}

// DetectMIME trusts the declared type unless it is empty or generic, in
// which case the content is sniffed.
func DetectMIME(declared string, head []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(head).String()
}

// StoredName rewrites an original file name to
// "<lowercased-name-with-hyphens>-<unix millis><ext>".
func StoredName(original string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := filepath.Ext(base)
	stem := strings.ToLower(strings.Join(strings.Fields(strings.TrimSuffix(base, ext)), "-"))
	if stem == "" {
		stem = "file"
	}
	return stem + "-" + strconv.FormatInt(now.UnixMilli(), 10) + ext
}
