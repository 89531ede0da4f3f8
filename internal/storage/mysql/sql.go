package mysql

// The overlay is one table: review_id -> moderation status. Upsert keeps the
// write path idempotent, matching the approve/reset dashboard buttons.
const upsertStatusSQL = `
INSERT INTO review_approvals (review_id, status)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  status     = VALUES(status),
  updated_at = CURRENT_TIMESTAMP
`

// selectStatusesPrefix is completed with an IN (?,...) placeholder list sized
// to the id batch.
const selectStatusesPrefix = `
SELECT review_id, status
FROM review_approvals
WHERE review_id IN `
