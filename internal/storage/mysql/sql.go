package mysql

const upsertListingSQL = `
INSERT INTO listings
  (id, type, name, slug, description, image_url, category, rating, review_count,
   lat, lng, featured, verified, phone, email, whatsapp, price_from, address, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name         = VALUES(name),
  slug         = VALUES(slug),
  description  = VALUES(description),
  image_url    = VALUES(image_url),
  category     = VALUES(category),
  rating       = VALUES(rating),
  review_count = VALUES(review_count),
  lat          = VALUES(lat),
  lng          = VALUES(lng),
  featured     = VALUES(featured),
  verified     = VALUES(verified),
  phone        = VALUES(phone),
  email        = VALUES(email),
  whatsapp     = VALUES(whatsapp),
  price_from   = VALUES(price_from),
  address      = VALUES(address),
  raw          = VALUES(raw),
  updated_at   = CURRENT_TIMESTAMP
`

const insertSyncMissSQL = `
INSERT INTO sync_misses (type, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP, http_status = VALUES(http_status)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Stable id ordering keeps the combination's tie-break deterministic across
// requests with identical inputs.
const listByTypeSQL = `
SELECT
  id, type, name, slug, description, image_url, category, rating, review_count,
  lat, lng, featured, verified, phone, email, whatsapp, price_from, address
FROM listings
WHERE type = ?
ORDER BY id
LIMIT ?
`

const getBySlugSQL = `
SELECT
  id, type, name, slug, description, image_url, category, rating, review_count,
  lat, lng, featured, verified, phone, email, whatsapp, price_from, address
FROM listings
WHERE type = ? AND slug = ?
`
