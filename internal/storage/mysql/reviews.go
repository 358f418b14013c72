package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cinefilia/internal/domain"
)

func scanReview(s scanner) (domain.Review, error) {
	var rv domain.Review
	var title sql.NullString
	if err := s.Scan(&rv.ID, &rv.Author, &rv.MovieAPIID, &title, &rv.Content, &rv.Rate, &rv.LikesCounter, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return domain.Review{}, err
	}
	rv.MovieTitle = title.String
	return rv, nil
}

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID, rv.Author, rv.MovieAPIID, nullStr(rv.MovieTitle), rv.Content, rv.Rate, rv.CreatedAt, rv.UpdatedAt)
	if isDuplicate(err) {
		return fmt.Errorf("review %s: %w", rv.ID, domain.ErrConflict)
	}
	return err
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	return rv, notFound("review", id, err)
}

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	var (
		where []string
		args  []any
	)
	if q.Author != "" {
		where = append(where, "author = ?")
		args = append(args, q.Author)
	}
	if q.MovieAPIID != 0 {
		where = append(where, "movie_api_id = ?")
		args = append(args, q.MovieAPIID)
	}
	if m := strings.TrimSpace(q.Movie); m != "" {
		where = append(where, "movie_title LIKE CONCAT('%', ?, '%')")
		args = append(args, likeEscape(m))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + reviewColumns + ` FROM reviews`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if q.Filter == domain.FilterTop {
		sb.WriteString(" ORDER BY likes_counter DESC, created_at DESC, id DESC")
	} else {
		sb.WriteString(" ORDER BY created_at DESC, id DESC")
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateReview(ctx context.Context, rv domain.Review) error {
	res, err := r.db.ExecContext(ctx, updateReviewSQL, rv.Content, rv.Rate, rv.UpdatedAt, rv.ID)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, "reviews", "review", rv.ID)
}

func (r *Repo) DeleteReview(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AddLike inserts the like row and bumps the counter in one transaction; the
// review row lock serialises concurrent likes on the same review.
func (r *Repo) AddLike(ctx context.Context, reviewID, userID string) (bool, error) {
	return r.toggleLike(ctx, reviewID, userID, insertLikeSQL, 1)
}

func (r *Repo) RemoveLike(ctx context.Context, reviewID, userID string) (bool, error) {
	return r.toggleLike(ctx, reviewID, userID, deleteLikeSQL, -1)
}

func (r *Repo) toggleLike(ctx context.Context, reviewID, userID, stmt string, delta int) (bool, error) {
	var changed bool
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var id string
		if err := tx.QueryRowContext(ctx, lockReviewSQL, reviewID).Scan(&id); err != nil {
			return notFound("review", reviewID, err)
		}
		res, err := tx.ExecContext(ctx, stmt, reviewID, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil || n == 0 {
			return err
		}
		changed = true
		_, err = tx.ExecContext(ctx, bumpLikesSQL, delta, reviewID)
		return err
	})
	return changed, err
}

func (r *Repo) ReviewedMovieIDs(ctx context.Context) ([]int64, error) {
	return r.int64s(ctx, reviewedMovieIDsSQL)
}

func (r *Repo) int64s(ctx context.Context, q string, args ...any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
