package domain

import (
	"sort"
	"strings"
)

// FilterReviews applies q to an in-memory slice. The input is not modified.
func FilterReviews(items []Review, q ReviewsQuery) []Review {
	needle := strings.ToLower(strings.TrimSpace(q.Movie))
	out := make([]Review, 0, len(items))
	for _, r := range items {
		if q.Author != "" && r.Author != q.Author {
			continue
		}
		if q.MovieAPIID != 0 && r.MovieAPIID != q.MovieAPIID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.MovieTitle), needle) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.Filter == FilterTop && out[i].LikesCounter != out[j].LikesCounter {
			return out[i].LikesCounter > out[j].LikesCounter
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// FilterCommunities applies q to an in-memory slice, newest first.
func FilterCommunities(items []Community, q CommunitiesQuery) []Community {
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	out := make([]Community, 0, len(items))
	for _, c := range items {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Title), needle) &&
			!strings.Contains(strings.ToLower(c.Description), needle) {
			continue
		}
		if q.Genre != "" && !containsFold(c.Genres, q.Genre) {
			continue
		}
		if q.Decade != 0 && !containsInt(c.Decades, q.Decade) {
			continue
		}
		if q.Member != "" && !c.IsMember(q.Member) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func containsFold(xs []string, s string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}
