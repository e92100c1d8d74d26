package esodbc

import "strings"

// translateEscapes rewrites the JDBC/ODBC escape clauses {d '...'}, {t '...'},
// {ts '...'}, and {fn ...} into Elasticsearch SQL syntax before the query is
// sent. Spec's Non-goals exclude SQL parsing/rewriting beyond this minimal
// translation; grounded on the escape-clause handling in the original
// driver's queries.c, kept intentionally textual (no SQL parser) the same
// way the original does it with a single forward scan.
func translateEscapes(query string) string {
	var out strings.Builder
	i := 0
	for i < len(query) {
		if query[i] != '{' {
			out.WriteByte(query[i])
			i++
			continue
		}
		end := strings.IndexByte(query[i:], '}')
		if end < 0 {
			out.WriteString(query[i:])
			break
		}
		clause := query[i+1 : i+end]
		out.WriteString(translateOneEscape(clause))
		i += end + 1
	}
	return out.String()
}

func translateOneEscape(clause string) string {
	trimmed := strings.TrimSpace(clause)
	switch {
	case hasPrefixFold(trimmed, "d "):
		return strings.TrimSpace(trimmed[2:])
	case hasPrefixFold(trimmed, "t "):
		return strings.TrimSpace(trimmed[2:])
	case hasPrefixFold(trimmed, "ts "):
		return strings.TrimSpace(trimmed[3:])
	case hasPrefixFold(trimmed, "fn "):
		return strings.TrimSpace(trimmed[3:])
	default:
		return "{" + clause + "}"
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
