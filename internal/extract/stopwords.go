package extract

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "can", "could", "did",
		"do", "does", "for", "from", "had", "has", "have", "he", "her", "his", "how", "i", "if",
		"in", "into", "is", "it", "its", "it's", "me", "my", "no", "not", "of", "on", "or", "our",
		"she", "so", "than", "that", "the", "their", "them", "then", "there", "these", "they",
		"this", "those", "to", "too", "up", "us", "was", "we", "were", "what", "when", "where",
		"which", "who", "will", "with", "would", "you", "your",
	} {
		stopWords[w] = struct{}{}
	}
}

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
