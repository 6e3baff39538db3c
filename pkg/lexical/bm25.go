package lexical

import (
	"context"
	"math"
	"regexp"
	"strings"
	"sync"
)

// BM25 Okapi parameters.
const (
	k1 = 1.5
	b  = 0.75
)

var (
	tokenPattern = regexp.MustCompile(`[a-z0-9+#]+`)

	// skillNormalizations folds common spelling variations of technical
	// terms so "node.js" and "nodejs" score against the same token.
	skillNormalizations = []struct {
		pattern     *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`\breact\.?js\b`), "reactjs"},
		{regexp.MustCompile(`\bnode\.?js\b`), "nodejs"},
		{regexp.MustCompile(`\bvue\.?js\b`), "vuejs"},
		{regexp.MustCompile(`\btype\s*script\b`), "typescript"},
		{regexp.MustCompile(`\bjava\s*script\b`), "javascript"},
		{regexp.MustCompile(`c\+\+`), "cplusplus"},
		{regexp.MustCompile(`c#`), "csharp"},
		{regexp.MustCompile(`\.net\b`), "dotnet"},
	}

	stopwords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
		"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
		"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
		"be": {}, "been": {}, "have": {}, "has": {}, "had": {}, "do": {},
		"does": {}, "did": {}, "will": {}, "would": {}, "could": {},
		"should": {}, "may": {}, "might": {}, "can": {},
	}
)

// Tokenize lowercases, folds skill variations, splits on non-token
// characters, and drops stopwords and single-character tokens.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	for _, n := range skillNormalizations {
		text = n.pattern.ReplaceAllString(text, n.replacement)
	}
	raw := tokenPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) < 2 {
			continue
		}
		if _, ok := stopwords[t]; ok {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// IsStopword reports whether the word is on the stopword list.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

type document struct {
	termFreq map[string]int
	length   int
}

// BM25Index is an in-memory Okapi BM25 index over candidate documents.
// Scores are normalized per query by the highest possible score so the
// Scorer contract stays in [0,1]. Reads are concurrent; indexing takes the
// write lock.
type BM25Index struct {
	mu        sync.RWMutex
	docs      map[string]*document
	docFreq   map[string]int
	totalLen  int
	available bool
}

// NewBM25Index creates an empty index.
func NewBM25Index() *BM25Index {
	return &BM25Index{
		docs:    make(map[string]*document),
		docFreq: make(map[string]int),
	}
}

// Index adds or replaces a document. The index becomes Available once it
// holds at least one document.
func (idx *BM25Index) Index(docID, content string) {
	tokens := Tokenize(content)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.docs[docID]; ok {
		idx.totalLen -= old.length
		for term := range old.termFreq {
			idx.docFreq[term]--
			if idx.docFreq[term] == 0 {
				delete(idx.docFreq, term)
			}
		}
	}

	doc := &document{termFreq: make(map[string]int), length: len(tokens)}
	for _, t := range tokens {
		doc.termFreq[t]++
	}
	for term := range doc.termFreq {
		idx.docFreq[term]++
	}
	idx.docs[docID] = doc
	idx.totalLen += doc.length
	idx.available = true
}

// Available reports whether the index holds any documents.
func (idx *BM25Index) Available() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.available && len(idx.docs) > 0
}

// Score computes the normalized BM25 score of a document for the query
// terms. Unknown documents score 0. Normalization divides by the best score
// among all documents for the same terms, so the top document scores 1.
func (idx *BM25Index) Score(ctx context.Context, queryTerms []string, docID string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.docs) == 0 {
		return 0, nil
	}
	target, ok := idx.docs[docID]
	if !ok {
		return 0, nil
	}

	terms := normalizeTerms(queryTerms)
	raw := idx.scoreLocked(terms, target)
	if raw == 0 {
		return 0, nil
	}

	var best float64
	for _, doc := range idx.docs {
		if s := idx.scoreLocked(terms, doc); s > best {
			best = s
		}
	}
	if best == 0 {
		return 0, nil
	}
	return raw / best, nil
}

func (idx *BM25Index) scoreLocked(terms []string, doc *document) float64 {
	avgLen := float64(idx.totalLen) / float64(len(idx.docs))
	n := float64(len(idx.docs))

	var score float64
	for _, term := range terms {
		df := float64(idx.docFreq[term])
		if df == 0 {
			continue
		}
		tf := float64(doc.termFreq[term])
		if tf == 0 {
			continue
		}
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		score += idf * (tf * (k1 + 1)) / (tf + k1*(1-b+b*float64(doc.length)/avgLen))
	}
	return score
}

func normalizeTerms(queryTerms []string) []string {
	var terms []string
	for _, qt := range queryTerms {
		terms = append(terms, Tokenize(qt)...)
	}
	return terms
}
