package contextkeys

// Custom type avoids collisions with other packages' context keys.
type contextKey string

// DBContextKey is the key under which middleware stores the *gorm.DB
// (pool or per-test transaction) for handlers to pick up.
const DBContextKey = contextKey("db")
