package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts page text from PDF files on disk.
type PDF struct{}

func NewPDF() *PDF { return &PDF{} }

// ExtractFile opens a stored PDF and concatenates the text of every page in
// order, one trailing newline per page that yields text. Pages without
// extractable text (scans, or text the decoder cannot handle) contribute
// nothing, so an empty string is a valid result.
func (PDF) ExtractFile(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
