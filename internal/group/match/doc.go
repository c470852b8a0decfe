// Package match classifies raw game output lines against the server's
// grouping message templates and extracts the entity references they carry.
//
// All templates are compiled into a single alternation so every line costs
// one regex pass regardless of table size. [Matcher.Classify] reports which
// template matched; [Extract] returns the <a exist=... noun=...> references
// left to right, which the dispatcher reads positionally (actor first).
//
//	m := match.Default()
//	if res, ok := m.Parse(line); ok {
//	    fmt.Println(res.Kind, res.Entities)
//	}
package match
