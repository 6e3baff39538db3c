package types

import (
	"fmt"
	"time"
)

// EntityType classifies a canonical entity in the candidate knowledge graph.
// The taxonomy is fixed; extraction output outside of it is rejected upstream.
type EntityType string

const (
	EntityPerson        EntityType = "PERSON"
	EntitySkill         EntityType = "SKILL"
	EntityCompany       EntityType = "COMPANY"
	EntityRole          EntityType = "ROLE"
	EntityLocation      EntityType = "LOCATION"
	EntityCertification EntityType = "CERTIFICATION"
	EntityEducation     EntityType = "EDUCATION"
)

// RelationType classifies an edge between two canonical entities.
type RelationType string

const (
	RelationHasSkill         RelationType = "HAS_SKILL"
	RelationWorkedAt         RelationType = "WORKED_AT"
	RelationHasRole          RelationType = "HAS_ROLE"
	RelationLocatedIn        RelationType = "LOCATED_IN"
	RelationHasCertification RelationType = "HAS_CERTIFICATION"
	RelationHasEducation     RelationType = "HAS_EDUCATION"
	RelationWorkedWith       RelationType = "WORKED_WITH"
)

// Chunk is an immutable slice of an indexed resume document.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	OrderIndex int       `json:"order_index"`
	TokenCount int       `json:"token_count"`
	Content    string    `json:"content"`
	Vector     []float32 `json:"vector,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
}

// Entity is a canonical identity to which raw surface forms resolve.
// CanonicalName is unique within a workspace; aliases accumulate over time.
type Entity struct {
	ID             string              `json:"id"`
	CanonicalName  string              `json:"canonical_name"`
	Aliases        map[string]struct{} `json:"aliases,omitempty"`
	Type           EntityType          `json:"type"`
	Vector         []float32           `json:"vector,omitempty"`
	SourceChunkIDs map[string]struct{} `json:"source_chunk_ids,omitempty"`
}

// HasAlias reports whether the entity already carries the given alias.
func (e *Entity) HasAlias(alias string) bool {
	_, ok := e.Aliases[alias]
	return ok
}

// Relation is a typed edge between two canonical entities.
type Relation struct {
	ID             string              `json:"id"`
	SourceEntityID string              `json:"source_entity_id"`
	TargetEntityID string              `json:"target_entity_id"`
	Type           RelationType        `json:"type"`
	Content        string              `json:"content,omitempty"`
	Vector         []float32           `json:"vector,omitempty"`
	SourceChunkIDs map[string]struct{} `json:"source_chunk_ids,omitempty"`
}

// RetrievalMode is the closed set of retrieval strategies.
type RetrievalMode string

const (
	ModeNaive  RetrievalMode = "naive"
	ModeLocal  RetrievalMode = "local"
	ModeGlobal RetrievalMode = "global"
	ModeHybrid RetrievalMode = "hybrid"
	ModeMix    RetrievalMode = "mix"
)

// Modes lists every valid retrieval mode.
func Modes() []RetrievalMode {
	return []RetrievalMode{ModeNaive, ModeLocal, ModeGlobal, ModeHybrid, ModeMix}
}

// ParseMode validates a raw mode string. Unknown modes are rejected before
// the fallback chain begins; they are not a retriable condition.
func ParseMode(raw string) (RetrievalMode, error) {
	m := RetrievalMode(raw)
	switch m {
	case ModeNaive, ModeLocal, ModeGlobal, ModeHybrid, ModeMix:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
}

// CandidateScore carries the fused ranking signals for one candidate.
// FinalScore is always in [0,1]. RerankScore is set only for candidates that
// made the capped rerank shortlist.
type CandidateScore struct {
	CandidateID  string   `json:"candidate_id"`
	LexicalScore float64  `json:"lexical_score"`
	VectorScore  float64  `json:"vector_score"`
	GraphBonus   float64  `json:"graph_bonus"`
	FinalScore   float64  `json:"final_score"`
	RerankScore  *float64 `json:"rerank_score,omitempty"`
}

// Candidate is a ranked candidate returned by Analyze.
type Candidate struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Content    string         `json:"content,omitempty"`
	Score      CandidateScore `json:"score"`
	Highlights []string       `json:"highlights,omitempty"`
}

// JobContext is the ephemeral result of the most recently completed analyze
// call for a job. It is written atomically: chat turns never observe a
// partially written context.
type JobContext struct {
	JobID            string        `json:"job_id"`
	OriginalQuery    string        `json:"original_query"`
	RetrievedContext string        `json:"retrieved_context"`
	Candidates       []Candidate   `json:"candidate_list"`
	ModeUsed         RetrievalMode `json:"mode_used"`
	CreatedAt        time.Time     `json:"created_at"`
}
