package domain

// ExtractQuery returns the text to translate at pos.
// A non-empty selection containing pos takes precedence over the word under the cursor.
// It returns false when there is nothing to translate.
func ExtractQuery(doc Document, pos Position, selections []Selection) (string, bool) {
	if doc == nil {
		return "", false
	}

	for _, sel := range selections {
		if sel.IsEmpty() || !sel.Contains(pos) {
			continue
		}
		text := doc.TextInRange(sel.Ordered())
		return text, text != ""
	}

	word, ok := doc.WordRangeAt(pos)
	if !ok {
		return "", false
	}

	text := doc.TextInRange(word)
	return text, text != ""
}
