package index

// stopwords holds a small per-language stopword set. Only the languages the
// folder's own LanguageConfig is expected to declare need an entry; an
// unrecognized language code falls back to English.
var stopwords = map[string]map[string]bool{
	"en": set("a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
		"to", "was", "were", "will", "with"),
	"fr": set("le", "la", "les", "de", "des", "du", "un", "une", "et", "en",
		"est", "que", "qui", "pour", "dans", "sur", "au", "aux"),
	"es": set("el", "la", "los", "las", "de", "del", "un", "una", "y", "en",
		"es", "que", "para", "por", "con", "al"),
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func isStopword(language, word string) bool {
	s, ok := stopwords[language]
	if !ok {
		s = stopwords["en"]
	}
	return s[word]
}
