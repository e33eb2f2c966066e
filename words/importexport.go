package words

import "strings"

// Export renders the selected words as paste-friendly text: the term on one
// line and its translation on the next, word after word. Returns the text
// and the number of words exported.
func Export(words []Word) (string, int) {
	var b strings.Builder
	count := 0
	for _, w := range words {
		if !w.Selected {
			continue
		}
		if count > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(w.English)
		b.WriteByte('\n')
		b.WriteString(w.Chinese)
		count++
	}
	return b.String(), count
}

// Import parses text in the Export format back into words. Blank lines are
// skipped; a trailing term without a translation line gets an empty
// translation. Imported words are selected and not done.
func Import(text string) []Word {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	var imported []Word
	for i := 0; i < len(lines); i += 2 {
		chinese := ""
		if i+1 < len(lines) {
			chinese = lines[i+1]
		}
		imported = append(imported, New(lines[i], chinese))
	}
	return imported
}
