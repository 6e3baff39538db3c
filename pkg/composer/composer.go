package composer

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// NoMatchingContext is the sentinel response for an empty candidate list.
// It is a valid outcome, not an error, and it means the generation
// collaborator was never invoked.
const NoMatchingContext = "no matching context"

// Instruction is the grounding contract prefixed to every composed context
// block. Generation must draw on the supplied resume data and nothing else.
const Instruction = `You are an applicant tracking assistant answering questions about candidate resumes.

Rules:
1. Answer only from the RESUME DATA below. Nothing else.
2. Do not talk about yourself or your capabilities.
3. List matching candidates as bullet points with their qualifications.
4. If the data does not cover the question, say "This information is not in the resume data."
5. Always finish the answer. Never end on a colon or an incomplete sentence.`

// Input is one shortlisted candidate entering composition.
type Input struct {
	Name    string
	Content string
	Score   float64
}

// Section is an auxiliary context block, such as a graph-relation summary,
// appended after the candidate block.
type Section struct {
	Title string
	Body  string
}

// Composition is a ready-to-generate grounding package. When
// NoMatchingContext is set, Context is empty and the caller must answer with
// the sentinel instead of generating.
type Composition struct {
	Instruction       string
	Context           string
	NoMatchingContext bool
}

// Composer assembles bounded, score-ordered context blocks.
type Composer struct {
	charBudget int
	logger     *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithCharBudget caps each candidate's content contribution. Values below 1
// keep the default.
func WithCharBudget(budget int) Option {
	return func(c *Composer) {
		if budget > 0 {
			c.charBudget = budget
		}
	}
}

// WithLogger sets the composer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Composer with a 500-character per-candidate budget.
func New(opts ...Option) *Composer {
	c := &Composer{charBudget: 500, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the grounding package from ranked candidates and optional
// auxiliary sections. Candidates are ordered by score descending before
// truncation so the strongest content is never the content that gets cut.
// An empty input produces the no-matching-context sentinel.
func (c *Composer) Compose(candidates []Input, sections ...Section) *Composition {
	blocks := c.candidateBlocks(candidates)
	for _, section := range sections {
		if body := strings.TrimSpace(section.Body); body != "" {
			blocks = append(blocks, fmt.Sprintf("## %s\n%s", section.Title, body))
		}
	}

	if len(blocks) == 0 {
		c.logger.Debug("composition empty, returning sentinel")
		return &Composition{NoMatchingContext: true}
	}

	return &Composition{
		Instruction: Instruction,
		Context:     strings.Join(blocks, "\n\n"),
	}
}

func (c *Composer) candidateBlocks(candidates []Input) []string {
	ordered := make([]Input, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	var blocks []string
	for _, candidate := range ordered {
		content := strings.TrimSpace(candidate.Content)
		if content == "" {
			continue
		}
		content, truncated := truncate(content, c.charBudget)
		block := fmt.Sprintf("**%s** (Score: %.2f):\n%s", candidate.Name, candidate.Score, content)
		if truncated {
			block += "..."
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// truncate cuts s to at most budget characters without splitting a rune.
func truncate(s string, budget int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= budget {
		return s, false
	}
	return string(runes[:budget]), true
}
