package contextkeys

// Custom key type avoids collisions with other context values.
type contextKey string

// DBContextKey is the key under which a *gorm.DB handle travels in a
// request context (per-request transactions in tests).
const DBContextKey = contextKey("db")
