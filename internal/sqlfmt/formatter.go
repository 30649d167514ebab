package sqlfmt

import (
	"regexp"
	"strings"
)

// Keywords is the fixed casing vocabulary, canonical form.
// Multi-word entries are matched across any whitespace run, so
// "order  by" and "order\nby" both canonicalise to "ORDER BY".
var Keywords = []string{
	"INSERT INTO",
	"ORDER BY",
	"GROUP BY",
	"UNION ALL",
	"LEFT JOIN",
	"RIGHT JOIN",
	"INNER JOIN",
	"OUTER JOIN",
	"CROSS JOIN",
	"FULL JOIN",
	"SELECT",
	"DISTINCT",
	"UPDATE",
	"DELETE",
	"BETWEEN",
	"HAVING",
	"OFFSET",
	"VALUES",
	"UNION",
	"WHERE",
	"LIMIT",
	"FROM",
	"JOIN",
	"WITH",
	"LIKE",
	"CASE",
	"WHEN",
	"THEN",
	"ELSE",
	"NULL",
	"DESC",
	"AND",
	"NOT",
	"SET",
	"END",
	"ASC",
	"AS",
	"IN",
	"IS",
	"ON",
	"OR",
}

// keywordPattern pairs a compiled matcher with its canonical form.
type keywordPattern struct {
	re        *regexp.Regexp
	canonical string
}

var keywordPatterns = compileKeywords()

func compileKeywords() []keywordPattern {
	patterns := make([]keywordPattern, 0, len(Keywords))
	for _, kw := range Keywords {
		words := strings.Fields(kw)
		expr := `(?i)\b` + strings.Join(words, `\s+`) + `\b`
		patterns = append(patterns, keywordPattern{
			re:        regexp.MustCompile(expr),
			canonical: kw,
		})
	}
	return patterns
}

// Clause keywords get a line to themselves; AND/OR/ON nest two spaces
// under their owning clause. Both patterns run on already-canonical
// text, so they match exact uppercase single-spaced forms. Alternatives
// are ordered longest first so LEFT JOIN is consumed before bare JOIN.
var (
	clauseBreakRe = regexp.MustCompile(
		`[ \t\n]+((?:LEFT |RIGHT |INNER |OUTER |CROSS |FULL )?JOIN\b|FROM\b|WHERE\b|ORDER BY\b|GROUP BY\b|HAVING\b|LIMIT\b|OFFSET\b|UNION(?: ALL)?\b|SET\b|VALUES\b)`)

	nestedBreakRe = regexp.MustCompile(`[ \t\n]+((?:AND|OR|ON)\b)`)

	commaBreakRe = regexp.MustCompile(`,\s*`)
)

// Format normalises SQL text. The passes run in a fixed order; the
// order is what makes the whole idempotent, so don't reorder them.
func Format(sql string) string {
	if strings.TrimSpace(sql) == "" {
		return strings.TrimSpace(sql)
	}

	out := canonicaliseKeywords(sql)
	out = clauseBreakRe.ReplaceAllString(out, "\n$1")
	out = nestedBreakRe.ReplaceAllString(out, "\n  $1")
	out = commaBreakRe.ReplaceAllString(out, ",\n  ")
	out = trimTrailing(out)

	return out
}

// canonicaliseKeywords uppercases the fixed vocabulary in place.
// Multi-word keywords are rejoined with single spaces, which is what
// lets a clause name survive a soft line wrap.
func canonicaliseKeywords(sql string) string {
	for _, p := range keywordPatterns {
		sql = p.re.ReplaceAllString(sql, p.canonical)
	}
	return sql
}

// trimTrailing removes trailing spaces and tabs from every line.
func trimTrailing(sql string) string {
	lines := strings.Split(sql, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
