package app

import "cinefilia/internal/domain"

func uniqueInt64(in ...[]int64) []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, xs := range in {
		for _, x := range xs {
			if x <= 0 {
				continue
			}
			if _, ok := seen[x]; ok {
				continue
			}
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	return out
}

func uniqueStrings(in ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, xs := range in {
		for _, x := range xs {
			if x == "" {
				continue
			}
			if _, ok := seen[x]; ok {
				continue
			}
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	return out
}

func summariesByID(us []domain.User) map[string]domain.UserSummary {
	out := make(map[string]domain.UserSummary, len(us))
	for _, u := range us {
		out[u.ID] = u.Summary()
	}
	return out
}

// orEmpty keeps JSON arrays as [] instead of null.
func orEmpty[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}

func movieTitle(m domain.Movie) string {
	if m.Title != "" {
		return m.Title
	}
	return m.OriginalTitle
}

func toCommunityDetails(c domain.Community, users map[string]domain.UserSummary, movies []domain.Movie, actors, directors []domain.Person) domain.CommunityDetails {
	members := make([]domain.UserSummary, 0, len(c.Users))
	for _, id := range c.Users {
		if u, ok := users[id]; ok {
			members = append(members, u)
		}
	}
	owner, ok := users[c.Owner]
	if !ok {
		owner = domain.UserSummary{ID: c.Owner}
	}
	return domain.CommunityDetails{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Cover:           c.Cover,
		Genres:          orEmpty(c.Genres),
		Decades:         orEmpty(c.Decades),
		FetishActors:    orEmpty(actors),
		FetishDirectors: orEmpty(directors),
		Movies:          orEmpty(movies),
		MoviesAPIIDs:    orEmpty(c.MoviesAPIIDs),
		Users:           members,
		Owner:           owner,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func eventsOrNoop(ev domain.EventRecorder) domain.EventRecorder {
	if ev == nil {
		return domain.NoEvents{}
	}
	return ev
}
