package composer

import (
	"fmt"
	"regexp"
	"strings"
)

// namePattern matches capitalized two- or three-word runs, the shape of
// person names in resume text. Single capitalized words are excluded to
// avoid matching sentence starts and skill names.
var namePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})\b`)

// selfReferenceMarkers flag responses where the model talks about itself
// instead of the resume data.
var selfReferenceMarkers = []string{
	"i have been trained",
	"as an ai",
	"i don't have access",
	"i cannot access",
	"my knowledge",
	"my training",
}

// noMatchPhrases mark legitimate "nothing found" answers, which are exempt
// from the name cross-check.
var noMatchPhrases = []string{"no candidate", "not find", "cannot provide"}

// ValidateGrounded checks that a generated response stays inside the
// supplied context: it must be substantive, complete, free of
// self-referential statements, and must not name people absent from the
// resume data. A nil return means the response passed.
func ValidateGrounded(response, context string) error {
	trimmed := strings.TrimSpace(response)
	if len(trimmed) < 10 {
		return fmt.Errorf("response too short to be meaningful")
	}
	if strings.HasSuffix(trimmed, ":") || strings.HasSuffix(trimmed, "following") {
		return fmt.Errorf("response appears truncated")
	}

	responseLower := strings.ToLower(response)
	for _, marker := range selfReferenceMarkers {
		if strings.Contains(responseLower, marker) {
			return fmt.Errorf("response contains self-referential statements")
		}
	}

	contextNames := extractNames(context)
	responseNames := extractNames(response)
	if len(contextNames) == 0 || len(responseNames) == 0 {
		return nil
	}
	if namesOverlap(responseNames, contextNames) {
		return nil
	}
	for _, phrase := range noMatchPhrases {
		if strings.Contains(responseLower, phrase) {
			return nil
		}
	}
	return fmt.Errorf("response names people not present in the resume data")
}

func extractNames(text string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, match := range namePattern.FindAllString(text, -1) {
		names[strings.ToLower(match)] = struct{}{}
	}
	return names
}

// namesOverlap accepts an exact name match or a shared name part, so
// "Tammy" still matches "Tammy McKenzie".
func namesOverlap(responseNames, contextNames map[string]struct{}) bool {
	if _, ok := firstIntersection(responseNames, contextNames); ok {
		return true
	}
	for responseName := range responseNames {
		responseParts := strings.Fields(responseName)
		for contextName := range contextNames {
			contextParts := strings.Fields(contextName)
			for _, rp := range responseParts {
				for _, cp := range contextParts {
					if rp == cp {
						return true
					}
				}
			}
		}
	}
	return false
}

func firstIntersection(a, b map[string]struct{}) (string, bool) {
	for key := range a {
		if _, ok := b[key]; ok {
			return key, true
		}
	}
	return "", false
}
