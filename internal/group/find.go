package group

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/group/match"
)

// fold returns the case-folded form of s for caseless comparison.
// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// fuzzyLimit scales the accepted edit distance with the query length.
func fuzzyLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// FindMember looks up a tracked member by id ("5" or "#5"), noun or name.
// It returns a NotFoundError when nothing is close enough.
func (t *Tracker) FindMember(query string) (Member, error) {
	return FindIn(t.snapshotMembers(), query)
}

// FindIn looks up query among candidates the way FindMember does: exact id,
// noun or name first, then case-insensitive matches, then the closest noun
// or name within a length-scaled edit distance.
func FindIn(candidates []Member, query string) (Member, error) {
	query = strings.TrimSpace(query)

	if id, err := strconv.ParseInt(strings.TrimPrefix(query, "#"), 10, 64); err == nil {
		for _, m := range candidates {
			if m.ID == id {
				return m, nil
			}
		}
	}

	for _, m := range candidates {
		if m.Noun == query || m.Name == query {
			return m, nil
		}
	}

	folded := fold(query)
	if folded == "" {
		return Member{}, errors.NewNotFoundError("member", query)
	}
	for _, m := range candidates {
		if fold(m.Noun) == folded || fold(m.Name) == folded {
			return m, nil
		}
	}

	best, bestDist := -1, fuzzyLimit(len(folded))+1
	for i, m := range candidates {
		for _, candidate := range []string{m.Noun, m.Name} {
			if candidate == "" {
				continue
			}
			c := fold(candidate)
			if d := levenshtein.ComputeDistance(folded, c); d <= fuzzyLimit(len(c)) && d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	if best < 0 {
		return Member{}, errors.NewNotFoundError("member", query)
	}
	return candidates[best], nil
}

// EntitiesIn returns the characters referenced in lines, first sighting
// first, without duplicate ids.
func EntitiesIn(lines []string) []Member {
	var s State
	for _, l := range lines {
		for _, ref := range match.Extract(l) {
			s.push(MemberFromRef(ref))
		}
	}
	return s.Members
}
