package analyzer

import (
	"sort"
	"strings"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// Semantic classification works on header text alone. Cell values are
// never consulted, which keeps the pass cheap and its results stable
// while data is edited under the headers.

// tableTypeVocab maps table kinds to header keywords, in precedence
// order for ties.
var tableTypeVocab = []vocabEntry{
	{"inventory", []string{"product", "item", "stock", "sku", "quantity", "warehouse", "unit"}},
	{"financial", []string{"price", "cost", "revenue", "amount", "total", "budget", "expense", "profit", "invoice", "payment"}},
	{"customer", []string{"customer", "client", "email", "phone", "address", "contact"}},
	{"temporal", []string{"date", "month", "year", "time", "period", "quarter", "week"}},
}

// domainVocab maps business domains to header keywords.
var domainVocab = []vocabEntry{
	{"sales", []string{"revenue", "sales", "order", "customer", "deal", "invoice"}},
	{"hr", []string{"employee", "salary", "hire", "department", "staff"}},
	{"logistics", []string{"shipment", "warehouse", "delivery", "stock", "carrier", "tracking"}},
	{"finance", []string{"budget", "expense", "account", "balance", "cost", "payment"}},
}

// keyColumnWords mark a header as a row identifier.
var keyColumnWords = []string{"id", "name", "product"}

// relationRules pair header fragments with the derived quantity their
// co-occurrence suggests.
var relationRules = []struct {
	a, b, rel string
}{
	{"price", "quantity", "total_value"},
	{"price", "cost", "profit_margin"},
	{"revenue", "cost", "profit_margin"},
	{"quantity", "weight", "shipping_weight"},
}

type vocabEntry struct {
	name  string
	words []string
}

// AnalyzeSemantics interprets a table from its column descriptors:
// table kind, business domain, key columns, aggregatable columns, and
// suggested cross-column derivations.
func AnalyzeSemantics(columns []models.Column) models.SemanticInfo {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToLower(c.Name)
	}

	info := models.SemanticInfo{
		TableType:      classify(headers, tableTypeVocab, "general"),
		BusinessDomain: classify(headers, domainVocab, "general"),
	}

	// The leftmost column is always a row identifier by spreadsheet
	// convention; further columns qualify by keyword.
	for i, c := range columns {
		if i == 0 || containsAny(headers[i], keyColumnWords) {
			info.KeyColumns = append(info.KeyColumns, c.Name)
		}
		if c.IsCalculable {
			info.CalculableColumns = append(info.CalculableColumns, c.Name)
		}
	}

	info.Relationships = relationships(columns, headers)
	return info
}

// classify scores each vocabulary entry by how many headers mention one
// of its words, returning the best match or the fallback when nothing
// scores. Ties resolve to the earlier entry.
func classify(headers []string, vocab []vocabEntry, fallback string) string {
	best, bestScore := fallback, 0
	for _, entry := range vocab {
		score := 0
		for _, h := range headers {
			if containsAny(h, entry.words) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = entry.name, score
		}
	}
	return best
}

func relationships(columns []models.Column, headers []string) []models.Relationship {
	find := func(word string) int {
		for i, h := range headers {
			if strings.Contains(h, word) {
				return i
			}
		}
		return -1
	}

	var rels []models.Relationship
	for _, rule := range relationRules {
		a, b := find(rule.a), find(rule.b)
		if a < 0 || b < 0 || a == b {
			continue
		}
		rels = append(rels, models.Relationship{
			Type:    rule.rel,
			Columns: []string{columns[a].Name, columns[b].Name},
		})
	}
	return rels
}

// SharedColumns links tables that carry columns with the same name,
// compared case-insensitively. Each table pair appears at most once.
func SharedColumns(tables []*models.Table) []models.TableLink {
	var links []models.TableLink
	for i := 0; i < len(tables); i++ {
		for j := i + 1; j < len(tables); j++ {
			shared := sharedHeaderNames(tables[i], tables[j])
			if len(shared) == 0 {
				continue
			}
			links = append(links, models.TableLink{
				LeftTable:  tables[i].ID,
				RightTable: tables[j].ID,
				Columns:    shared,
			})
		}
	}
	return links
}

func sharedHeaderNames(a, b *models.Table) []string {
	seen := make(map[string]bool, len(a.Headers))
	for _, h := range a.Headers {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			seen[h] = true
		}
	}
	var shared []string
	for _, h := range b.Headers {
		if h = strings.ToLower(strings.TrimSpace(h)); seen[h] {
			shared = append(shared, h)
			seen[h] = false
		}
	}
	sort.Strings(shared)
	return shared
}

// containsAny reports whether the header mentions any of the words as a
// substring, so "Products" matches "product" and "OrderIDs" matches "id".
func containsAny(header string, words []string) bool {
	for _, w := range words {
		if strings.Contains(header, w) {
			return true
		}
	}
	return false
}
