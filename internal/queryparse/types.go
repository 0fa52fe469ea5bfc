package queryparse

import (
	"fmt"
	"regexp"
	"strings"
)

// QueryType is the high-level category of an insurance-policy question.
type QueryType string

const (
	TypeYesNo          QueryType = "yes_no"
	TypeDefinition     QueryType = "definition"
	TypeNumericFactoid QueryType = "numeric_factoid"
	TypeListing        QueryType = "listing"
	TypeSubLimit       QueryType = "sub_limit"
	TypeProcedural     QueryType = "procedural"
	TypeEligibility    QueryType = "eligibility"
	TypeOthers         QueryType = "others"
)

var validQueryTypes = map[QueryType]bool{
	TypeYesNo:          true,
	TypeDefinition:     true,
	TypeNumericFactoid: true,
	TypeListing:        true,
	TypeSubLimit:       true,
	TypeProcedural:     true,
	TypeEligibility:    true,
	TypeOthers:         true,
}

// StructuredQuery is the classifier's output: exactly four keys. KeyWord
// holds the retrieval-boost phrase(s) — multiple topics are joined with "; "
// by the model and later normalized. SubQuery maps one-to-one onto topics.
type StructuredQuery struct {
	KeyWord   string    `json:"key_word"`
	SubQuery  []string  `json:"sub_query"`
	RawQuery  string    `json:"raw_query"`
	QueryType QueryType `json:"query_type"`
}

// Validate checks the schema the prompt demands. The error text is fed back
// to the model on the repair pass, so it names the offending field.
func (q *StructuredQuery) Validate() error {
	if strings.TrimSpace(q.KeyWord) == "" {
		return fmt.Errorf("key_word must be a non-empty string")
	}
	if len(q.SubQuery) == 0 {
		return fmt.Errorf("sub_query must contain at least one question")
	}
	for i, sub := range q.SubQuery {
		if strings.TrimSpace(sub) == "" {
			return fmt.Errorf("sub_query[%d] is empty", i)
		}
	}
	if !validQueryTypes[q.QueryType] {
		return fmt.Errorf("query_type %q is not one of the eight allowed values", q.QueryType)
	}
	return nil
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKeyWord lowercases the key phrase and collapses every run of
// non-alphanumeric characters to a single space, easing downstream matching.
func NormalizeKeyWord(s string) string {
	return strings.TrimSpace(nonAlnumRe.ReplaceAllString(strings.ToLower(s), " "))
}
