package group

// Broken cross-checks tracked membership against the players visible in the
// room. When the character leads, the group is broken if members are
// tracked but the room is empty, or a tracked member's noun is not visible.
// Members whose leave line was parsed are no longer tracked, so only
// unexplained absences count. When another character leads, the group is
// broken if that leader is not visible.
//
// Without a room observer, or with the leader still unset, there is nothing
// to corroborate and Broken returns false. Broken never repairs the state.
func (t *Tracker) Broken() bool {
	t.mu.Lock()
	room := t.room
	s := t.state.Clone()
	t.mu.Unlock()

	if room == nil {
		return false
	}

	switch s.Leader.Kind() {
	case LeaderSelf:
		if len(s.Members) == 0 {
			return false
		}
		visible := foldSet(room.Players())
		if len(visible) == 0 {
			return true
		}
		for _, m := range s.Members {
			if !visible[fold(m.Noun)] {
				return true
			}
		}
		return false

	case LeaderOther:
		leader, _ := s.Leader.Member()
		return !foldSet(room.Players())[fold(leader.Noun)]

	default:
		return false
	}
}

func foldSet(nouns []string) map[string]bool {
	set := make(map[string]bool, len(nouns))
	for _, n := range nouns {
		set[fold(n)] = true
	}
	return set
}
