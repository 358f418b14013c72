package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"cinefilia/internal/domain"
)

func scanCommunity(s scanner) (domain.Community, error) {
	var c domain.Community
	var cover sql.NullString
	var genres, decades, actors, directors, movies []byte
	if err := s.Scan(&c.ID, &c.Title, &c.Description, &cover, &genres, &decades, &actors, &directors, &movies, &c.Owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Community{}, err
	}
	c.Cover = cover.String
	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{genres, &c.Genres}, {decades, &c.Decades}, {actors, &c.FetishActors},
		{directors, &c.FetishDirectors}, {movies, &c.MoviesAPIIDs},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return domain.Community{}, fmt.Errorf("community %s: decode json column: %w", c.ID, err)
		}
	}
	return c, nil
}

func (r *Repo) CreateCommunity(ctx context.Context, c domain.Community) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertCommunitySQL,
			c.ID, c.Title, c.Description, nullStr(c.Cover),
			valJSON(c.Genres), valJSON(c.Decades), valJSON(c.FetishActors), valJSON(c.FetishDirectors), valJSON(c.MoviesAPIIDs),
			c.Owner, c.CreatedAt, c.UpdatedAt)
		if isDuplicate(err) {
			return fmt.Errorf("community %s: %w", c.ID, domain.ErrConflict)
		}
		if err != nil {
			return err
		}
		members := append([]string{c.Owner}, c.Users...)
		for _, u := range members {
			if _, err := tx.ExecContext(ctx, insertMemberSQL, c.ID, u); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) GetCommunity(ctx context.Context, id string) (domain.Community, error) {
	c, err := scanCommunity(r.db.QueryRowContext(ctx, `SELECT `+communityColumns+` FROM communities c WHERE c.id = ?`, id))
	if err != nil {
		return domain.Community{}, notFound("community", id, err)
	}
	members, err := r.members(ctx, []string{id})
	if err != nil {
		return domain.Community{}, err
	}
	c.Users = members[id]
	return c, nil
}

func (r *Repo) ListCommunities(ctx context.Context, q domain.CommunitiesQuery) ([]domain.Community, error) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(q.Q); s != "" {
		where = append(where, "(c.title LIKE CONCAT('%', ?, '%') OR c.description LIKE CONCAT('%', ?, '%'))")
		args = append(args, likeEscape(s), likeEscape(s))
	}
	if q.Genre != "" {
		where = append(where, "JSON_SEARCH(LOWER(c.genres), 'one', LOWER(?)) IS NOT NULL")
		args = append(args, q.Genre)
	}
	if q.Decade != 0 {
		where = append(where, "JSON_CONTAINS(c.decades, CAST(? AS JSON))")
		args = append(args, fmt.Sprint(q.Decade))
	}
	if q.Member != "" {
		where = append(where, "EXISTS (SELECT 1 FROM community_members m WHERE m.community_id = c.id AND m.user_id = ?)")
		args = append(args, q.Member)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + communityColumns + ` FROM communities c`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY c.created_at DESC, c.id DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	var out []domain.Community
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	for i, c := range out {
		ids[i] = c.ID
	}
	members, err := r.members(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Users = members[out[i].ID]
	}
	return out, nil
}

// members returns member ids per community in join order.
func (r *Repo) members(ctx context.Context, communityIDs []string) (map[string][]string, error) {
	args := make([]any, len(communityIDs))
	for i, id := range communityIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT community_id, user_id FROM community_members
		 WHERE community_id IN (`+placeholders(len(communityIDs))+`)
		 ORDER BY joined_at, user_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string, len(communityIDs))
	for rows.Next() {
		var cid, uid string
		if err := rows.Scan(&cid, &uid); err != nil {
			return nil, err
		}
		out[cid] = append(out[cid], uid)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateCommunity(ctx context.Context, c domain.Community) error {
	res, err := r.db.ExecContext(ctx, updateCommunitySQL,
		c.Title, c.Description, nullStr(c.Cover),
		valJSON(c.Genres), valJSON(c.Decades), valJSON(c.FetishActors), valJSON(c.FetishDirectors), valJSON(c.MoviesAPIIDs),
		c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, "communities", "community", c.ID)
}

func (r *Repo) DeleteCommunity(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM communities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("community %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) AddMember(ctx context.Context, communityID, userID string) (bool, error) {
	return r.toggleMember(ctx, communityID, userID, insertMemberSQL)
}

func (r *Repo) RemoveMember(ctx context.Context, communityID, userID string) (bool, error) {
	return r.toggleMember(ctx, communityID, userID, deleteMemberSQL)
}

func (r *Repo) toggleMember(ctx context.Context, communityID, userID, stmt string) (bool, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM communities WHERE id = ?`, communityID).Scan(&one); err != nil {
		return false, notFound("community", communityID, err)
	}
	res, err := r.db.ExecContext(ctx, stmt, communityID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repo) RecommendedMovieIDs(ctx context.Context) ([]int64, error) {
	return r.int64s(ctx, recommendedMovieIDsSQL)
}
