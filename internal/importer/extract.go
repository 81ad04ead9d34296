package importer

import (
	"strings"

	"github.com/starford/inkwell/internal/notefile"
	"github.com/starford/inkwell/internal/textclean"
)

// ExtractText walks the notebook's pages in order and concatenates each
// page's recognized text, transformed by clean and followed by a single line
// break. Pages with no text contribute nothing, not even a blank line. The
// result is empty when no page carries text.
func ExtractText(nb *notefile.Notebook, clean textclean.Transform) (string, error) {
	var b strings.Builder
	for _, page := range nb.Pages() {
		text, err := page.Text()
		if err != nil {
			return "", err
		}
		if text == "" {
			continue
		}
		if clean != nil {
			text = clean(text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
