package feed

// Tier is the relationship between a viewer and a post author.
type Tier string

const (
	TierMutual     Tier = "mutual"
	TierFollowing  Tier = "following"
	TierFollowedBy Tier = "followed_by"
	TierNone       Tier = "none"
)

// IDSet is a set of user ids. The zero value is an empty set.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. Safe on a nil set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in no particular order.
func (s IDSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// Classify returns the tier of authorID for a viewer who follows following
// and is followed by followers. Nil sets classify every author as TierNone.
func Classify(following, followers IDSet, authorID string) Tier {
	viewerFollows := following.Has(authorID)
	followsViewer := followers.Has(authorID)

	switch {
	case viewerFollows && followsViewer:
		return TierMutual
	case viewerFollows:
		return TierFollowing
	case followsViewer:
		return TierFollowedBy
	default:
		return TierNone
	}
}
