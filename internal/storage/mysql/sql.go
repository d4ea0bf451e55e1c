package mysql

// Note: dataset order is insertion order, so reads sort by the surrogate key.
const listReviewsSQL = `
SELECT review_id, review_body, location, created_at
FROM reviews
ORDER BY id
`

const insertReviewsPrefix = "INSERT INTO reviews\n  (review_id, review_body, location, created_at)\nVALUES "

// Re-seeding the same dataset refreshes rows instead of duplicating them.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  review_body = VALUES(review_body),\n" +
	"  location    = VALUES(location),\n" +
	"  created_at  = VALUES(created_at)\n"
