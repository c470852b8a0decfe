package match

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// entity is the non-capturing form of an entity reference used inside the
// combined template alternation.
const entity = `<a\s+exist="-?\d+"\s+noun="[^"]+">[^<]+</a>`

// possessive is an entity followed by an optional 's.
const possessive = entity + `(?:'s)?`

// pronoun covers the server's third-person possessive pronouns.
const pronoun = `(?:his|her|their|its)`

// statusGroup names the capture that holds the open/closed value.
const statusGroup = "status_value"

type template struct {
	kind    Kind
	pattern string
}

// templates lists one pattern per server message. {E} stands for an entity
// reference and {P} for a possessive entity reference. Order matters only
// when two templates could match at the same offset; the templates are
// written so that never happens.
var templates = []template{
	{KindStatus, `^Your group status is currently (?P<` + statusGroup + `>open|closed)\.`},
	{KindNoGroup, `^You are not currently in a group\.`},
	{KindDisband, `^You disband your group\.`},
	{KindMember, `^You are (?:leading|grouped with) .*?{E}`},

	{KindJoin, `{E} joins your group\.`},
	{KindLeave, `{E} leaves your group\.`},
	{KindAdd, `You add {E} to your group\.`},
	{KindRemove, `You remove {E} from the group\.`},
	{KindNoop, `But {E} is already a member of your group!`},

	{KindGaveLeaderAway, `You designate {E} as the new leader of the group\.`},
	{KindSwapLeader, `{E} designates {E} as the new leader of the group\.`},
	{KindAddedToNewGroup, `{E} adds you to ` + pronoun + ` group\.`},
	{KindJoinedNewGroup, `You join {P} group\.`},
	{KindLeaderAddedMember, `{E} adds {E} to ` + pronoun + ` group\.`},
	{KindLeaderRemovedMember, `{E} removes {E} from the group\.`},

	{KindHoldFirstReserved, `You reach out and hold {P} hand\.`},
	{KindHoldFirstNeutral, `You gently take hold of {P} hand\.`},
	{KindHoldFirstFriendly, `You grab {P} hand\.`},
	{KindHoldFirstWarm, `You clasp {P} hand tenderly\.`},

	{KindHoldSecondReserved, `{E} reaches out and holds your hand\.`},
	{KindHoldSecondNeutral, `{E} gently takes hold of your hand\.`},
	{KindHoldSecondFriendly, `{E} grabs your hand\.`},
	{KindHoldSecondWarm, `{E} clasps your hand tenderly\.`},

	{KindHoldThirdReserved, `{E} reaches out and holds {P} hand\.`},
	{KindHoldThirdNeutral, `{E} gently takes hold of {P} hand\.`},
	{KindHoldThirdFriendly, `{E} grabs {P} hand\.`},
	{KindHoldThirdWarm, `{E} clasps {P} hand tenderly\.`},

	{KindOtherJoinedGroup, `{E} joins {P} group\.`},
	{KindGroupClosed, `{P} group status is closed\.`},
}

// expand substitutes the entity placeholders in a template pattern.
func expand(pattern string) string {
	return strings.NewReplacer("{P}", possessive, "{E}", entity).Replace(pattern)
}

// Matcher classifies lines against the template table in a single regex
// pass. It is immutable after construction and safe for concurrent use.
type Matcher struct {
	re        *regexp.Regexp
	kinds     []Kind // indexed by submatch number; KindNone for inner groups
	statusIdx int
}

// NewMatcher compiles the template table into one alternation in which each
// template is a named group.
func NewMatcher() *Matcher {
	parts := make([]string, 0, len(templates))
	for _, t := range templates {
		parts = append(parts, "(?P<"+t.kind.String()+">"+expand(t.pattern)+")")
	}
	re := regexp.MustCompile(strings.Join(parts, "|"))

	byName := make(map[string]Kind, len(templates))
	for _, t := range templates {
		byName[t.kind.String()] = t.kind
	}

	m := &Matcher{re: re, kinds: make([]Kind, len(re.SubexpNames()))}
	for i, name := range re.SubexpNames() {
		if name == statusGroup {
			m.statusIdx = i
			continue
		}
		m.kinds[i] = byName[name]
	}
	return m
}

var defaultMatcher = sync.OnceValue(NewMatcher)

// Default returns a shared Matcher compiled on first use.
func Default() *Matcher {
	return defaultMatcher()
}

// Classify returns the template the line matches. Status reports also yield
// the captured open/closed value. ok is false for lines that match nothing.
// Trailing carriage returns and newlines are ignored.
func (m *Matcher) Classify(line string) (kind Kind, status Status, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	loc := m.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return KindNone, StatusUnknown, false
	}

	for i := 1; i < len(m.kinds); i++ {
		if loc[2*i] < 0 || m.kinds[i] == KindNone {
			continue
		}
		kind = m.kinds[i]
		break
	}
	if kind == KindStatus && m.statusIdx > 0 && loc[2*m.statusIdx] >= 0 {
		status = ParseStatus(line[loc[2*m.statusIdx]:loc[2*m.statusIdx+1]])
	}
	return kind, status, kind != KindNone
}

// Result is a classified line together with its entity references.
type Result struct {
	Kind     Kind
	Status   Status
	Entities []EntityRef
}

// Parse classifies the line and, when it matched, extracts its entities.
func (m *Matcher) Parse(line string) (Result, bool) {
	kind, status, ok := m.Classify(line)
	if !ok {
		return Result{}, false
	}
	return Result{Kind: kind, Status: status, Entities: Extract(line)}, true
}

// EntityRef is one <a exist=... noun=...>name</a> reference in a line.
type EntityRef struct {
	ID   int64
	Noun string
	Name string
}

// String renders the reference as "Name (#ID)".
func (e EntityRef) String() string {
	return e.Name + " (#" + strconv.FormatInt(e.ID, 10) + ")"
}

var entityPattern = regexp.MustCompile(`<a\s+exist="(-?\d+)"\s+noun="([^"]+)">([^<]+)</a>`)

// Extract returns every entity reference in the line, left to right.
// References whose id does not fit in an int64 are skipped. Possessive
// display names ("Foo's") are reduced to the bare name.
func Extract(line string) []EntityRef {
	matches := entityPattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]EntityRef, 0, len(matches))
	for _, sm := range matches {
		id, err := strconv.ParseInt(sm[1], 10, 64)
		if err != nil {
			continue
		}
		refs = append(refs, EntityRef{
			ID:   id,
			Noun: sm[2],
			Name: NormalizeName(sm[3]),
		})
	}
	return refs
}

// NormalizeName trims whitespace and a trailing possessive from a display name.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	for _, suffix := range []string{"'s", "’s"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
			return trimmed
		}
	}
	return name
}

// ContainsGivenLeadership reports whether the line hands leadership to the
// controlling character. The fragment is matched as a substring because the
// server embeds it in decorated text.
func ContainsGivenLeadership(line string) bool {
	return strings.Contains(line, "designates you as the new leader")
}

// ContainsIndicatorRemoved reports whether the line carries the markup that
// hides the "joined" status icon, which the client emits when the group is gone.
func ContainsIndicatorRemoved(line string) bool {
	return strings.Contains(line, "<indicator id='IconJOINED' visible='n'/>") ||
		strings.Contains(line, `<indicator id="IconJOINED" visible="n"/>`)
}

// ContainsLeading reports whether the line says the character leads a group.
func ContainsLeading(line string) bool {
	return strings.Contains(line, "You are leading")
}

// ContainsGroupedWith reports whether the line names someone else's group.
func ContainsGroupedWith(line string) bool {
	return strings.Contains(line, "You are grouped with")
}
