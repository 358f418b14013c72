package mysql

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users
  (id, username, email, avatar, first_name, last_name, password_hash, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const userColumns = `id, username, email, avatar, first_name, last_name, password_hash, created_at`

const updateUserSQL = `
UPDATE users
SET username = ?, avatar = ?, first_name = ?, last_name = ?
WHERE id = ?
`

// -----------------------------------------------------------------------------
// REVIEWS
// -----------------------------------------------------------------------------

const insertReviewSQL = `
INSERT INTO reviews
  (id, author, movie_api_id, movie_title, content, rate, likes_counter, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, 0, ?, ?)
`

const reviewColumns = `id, author, movie_api_id, movie_title, content, rate, likes_counter, created_at, updated_at`

// likes_counter is owned by the like statements below, never by edits.
const updateReviewSQL = `
UPDATE reviews
SET content = ?, rate = ?, updated_at = ?
WHERE id = ?
`

const lockReviewSQL = `SELECT id FROM reviews WHERE id = ? FOR UPDATE`

const insertLikeSQL = `INSERT IGNORE INTO review_likes (review_id, user_id) VALUES (?, ?)`

const deleteLikeSQL = `DELETE FROM review_likes WHERE review_id = ? AND user_id = ?`

const bumpLikesSQL = `UPDATE reviews SET likes_counter = likes_counter + ? WHERE id = ?`

const reviewedMovieIDsSQL = `SELECT DISTINCT movie_api_id FROM reviews ORDER BY movie_api_id`

// -----------------------------------------------------------------------------
// COMMUNITIES
// -----------------------------------------------------------------------------

const insertCommunitySQL = `
INSERT INTO communities
  (id, title, description, cover, genres, decades, fetish_actors, fetish_directors, movies_api_ids, owner, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const communityColumns = `c.id, c.title, c.description, c.cover, c.genres, c.decades, c.fetish_actors, c.fetish_directors, c.movies_api_ids, c.owner, c.created_at, c.updated_at`

const updateCommunitySQL = `
UPDATE communities
SET title = ?, description = ?, cover = ?, genres = ?, decades = ?,
    fetish_actors = ?, fetish_directors = ?, movies_api_ids = ?, updated_at = ?
WHERE id = ?
`

const insertMemberSQL = `INSERT IGNORE INTO community_members (community_id, user_id) VALUES (?, ?)`

const deleteMemberSQL = `DELETE FROM community_members WHERE community_id = ? AND user_id = ?`

const recommendedMovieIDsSQL = `
SELECT DISTINCT jt.movie_id
FROM communities c,
     JSON_TABLE(c.movies_api_ids, '$[*]' COLUMNS (movie_id BIGINT PATH '$')) AS jt
ORDER BY jt.movie_id
`
