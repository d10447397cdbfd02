package document

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	leadingIndex = regexp.MustCompile(`^\d+\.\s*`)
	longNumber   = regexp.MustCompile(`\s*\d{8,}.*`)
)

// NormalizeName cleans a downloaded file name:
// "3. Codul fiscal 20231201123045.txt" -> "Codul_fiscal.txt".
// The extension is kept; a name that would become empty is returned unchanged.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	stem = leadingIndex.ReplaceAllString(stem, "")
	stem = longNumber.ReplaceAllString(stem, "")
	stem = strings.ReplaceAll(stem, " ", "_")
	stem = strings.ReplaceAll(stem, "__", "_")
	stem = strings.Trim(stem, "_")

	if stem == "" {
		return name
	}
	return stem + ext
}
