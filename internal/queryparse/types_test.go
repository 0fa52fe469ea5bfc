package queryparse

import (
	"strings"
	"testing"
)

func TestStructuredQueryValidate(t *testing.T) {
	valid := StructuredQuery{
		KeyWord:   "maternity_expenses",
		SubQuery:  []string{"coverage_and_conditions_of_maternity_expenses"},
		RawQuery:  "Does this policy cover maternity expenses?",
		QueryType: TypeYesNo,
	}

	tests := []struct {
		name    string
		mutate  func(*StructuredQuery)
		wantErr string
	}{
		{"valid", func(q *StructuredQuery) {}, ""},
		{"empty key_word", func(q *StructuredQuery) { q.KeyWord = "  " }, "key_word"},
		{"no sub queries", func(q *StructuredQuery) { q.SubQuery = nil }, "sub_query"},
		{"blank sub query", func(q *StructuredQuery) { q.SubQuery = []string{"ok", " "} }, "sub_query[1]"},
		{"unknown query type", func(q *StructuredQuery) { q.QueryType = "essay" }, "query_type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := valid
			q.SubQuery = append([]string(nil), valid.SubQuery...)
			tc.mutate(&q)

			err := q.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not name %q", err, tc.wantErr)
			}
		})
	}
}

func TestNormalizeKeyWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"maternity_expenses", "maternity expenses"},
		{"Room-Rent  Sub-Limit!", "room rent sub limit"},
		{"policy_portability; claim_documents", "policy portability claim documents"},
		{"  ", ""},
		{"abc123", "abc123"},
	}
	for _, tc := range tests {
		if got := NormalizeKeyWord(tc.in); got != tc.want {
			t.Errorf("NormalizeKeyWord(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
