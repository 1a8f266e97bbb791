// Package caseparse extracts structured case identifiers from free-text
// case files. Case files arrive in inconsistent shapes, so extraction is
// layered: exact colon-delimited fields first, then labeled-prefix pattern
// matching, then per-line heuristics for files with loose formatting. Later
// layers only fill fields the earlier layers missed.
package caseparse

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/fraudlens/fraudlens/internal/model"
)

// missingValue marks a single-value field the case file did not provide.
const missingValue = "N/A"

// field is one canonical case attribute with every label variant seen in
// the wild. Variants are tried in order; the first hit wins.
type field struct {
	name       string
	multiValue bool
	labels     []string
}

// Heuristic terms are ordered most-specific-first so a "CustID:" line is
// never claimed by the looser "ID:" label of the case-ID field.
var fields = []field{
	{name: "custid", labels: []string{"CustID:", "Customer ID:", "CustomerID:", "Cust_ID:"}},
	{name: "caseid", labels: []string{"Case ID:", "CaseID:", "Case_ID:", "ID:"}},
	{name: "name", labels: []string{"Name:", "Customer Name:", "Customer:"}},
	{name: "previouscases", multiValue: true, labels: []string{"Previous Cases:", "Prev Cases:", "Previous_Cases:", "Prior Cases:"}},
	{name: "transactions", multiValue: true, labels: []string{"Transactions:", "Transaction:", "TXN:", "Transaction ID:"}},
	{name: "accounts", multiValue: true, labels: []string{"Accounts:", "Account:", "Account Numbers:", "Acc:"}},
}

// Parser extracts a model.Case from raw case-file text.
type Parser struct {
	patterns map[string][]*regexp.Regexp
}

// New builds a parser with the label patterns precompiled.
func New() *Parser {
	patterns := make(map[string][]*regexp.Regexp, len(fields))
	for _, f := range fields {
		for _, label := range f.labels {
			re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*([^\n\r]+)`)
			patterns[f.name] = append(patterns[f.name], re)
		}
	}
	return &Parser{patterns: patterns}
}

// ParseFile reads and parses a case file from disk.
func (p *Parser) ParseFile(path string) (model.Case, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return model.Case{}, fmt.Errorf("reading case file: %w", err)
	}
	return p.Parse(string(content)), nil
}

// Parse extracts the case fields from raw text. Parsing never fails:
// missing single-value fields come back as "N/A" and missing multi-value
// fields as empty slices, so a sparse file still produces a usable case.
func (p *Parser) Parse(content string) model.Case {
	raw := p.extractColonFields(content)
	p.extractPatternFields(content, raw)
	p.extractLineFields(content, raw)

	return model.Case{
		CaseID:        singleValue(raw["caseid"]),
		CustomerName:  singleValue(raw["name"]),
		CustomerID:    singleValue(raw["custid"]),
		Accounts:      multiValue(raw["accounts"]),
		Transactions:  multiValue(raw["transactions"]),
		PreviousCases: multiValue(raw["previouscases"]),
	}
}

// extractColonFields handles the standard "Label: value" layout. Only lines
// whose label matches a known field variant exactly are claimed here.
func (p *Parser) extractColonFields(content string) map[string]string {
	raw := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, ":")
		if !ok || isEmptyValue(value) {
			continue
		}
		for _, f := range fields {
			if raw[f.name] != "" {
				continue
			}
			for _, label := range f.labels {
				if strings.EqualFold(strings.TrimSpace(key)+":", label) {
					raw[f.name] = strings.TrimSpace(value)
					break
				}
			}
		}
	}
	return raw
}

// extractPatternFields fills remaining fields via the precompiled label
// regexps, which also match labels embedded mid-line.
func (p *Parser) extractPatternFields(content string, raw map[string]string) {
	for _, f := range fields {
		if raw[f.name] != "" {
			continue
		}
		for _, re := range p.patterns[f.name] {
			match := re.FindStringSubmatch(content)
			if match == nil || isEmptyValue(match[1]) {
				continue
			}
			raw[f.name] = strings.TrimSpace(match[1])
			break
		}
	}
}

// lineTerms drive the loosest extraction layer: a line containing a term
// (case-insensitive) is attributed to the named field. Ordered so the more
// specific terms are tested first.
var lineTerms = []struct {
	name  string
	terms []string
}{
	{"custid", []string{"custid", "customer id", "customerid", "cust_id"}},
	{"caseid", []string{"case id", "caseid", "case_id", "id:"}},
	{"name", []string{"name:", "customer name", "customer:"}},
	{"previouscases", []string{"previous case", "prev case", "prior case"}},
	{"transactions", []string{"transaction", "txn", "tx "}},
	{"accounts", []string{"account", "acc"}},
}

// extractLineFields is the last-resort pass for files without colons or
// recognizable labels, such as "CustID CUST001" on a bare line.
func (p *Parser) extractLineFields(content string, raw map[string]string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, lt := range lineTerms {
			if raw[lt.name] != "" || !containsAny(lower, lt.terms) {
				continue
			}
			if value := extractValue(line); value != "" {
				raw[lt.name] = value
			}
			break
		}
	}
}

// extractValue pulls the value portion of a loose line: everything after
// the first colon, or failing that everything after the first word.
func extractValue(line string) string {
	if _, value, ok := strings.Cut(line, ":"); ok {
		return strings.TrimSpace(value)
	}
	parts := strings.Fields(line)
	if len(parts) >= 2 {
		return strings.Join(parts[1:], " ")
	}
	return ""
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func isEmptyValue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "n/a", "none", "null", "empty":
		return true
	}
	return false
}

func singleValue(value string) string {
	if isEmptyValue(value) {
		return missingValue
	}
	return strings.TrimSpace(value)
}

// multiValue splits a field on the common list delimiters and drops empty
// or placeholder entries.
func multiValue(value string) []string {
	if isEmptyValue(value) {
		return []string{}
	}
	items := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if !isEmptyValue(item) {
			cleaned = append(cleaned, strings.TrimSpace(item))
		}
	}
	return cleaned
}
