package telemetry

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type startTimeKey struct{ plugin string }

// registerTimed installs, for each GORM processor, a before hook that stamps
// the start time and an after hook that receives the elapsed time.
// Row and Raw statements derive the operation from their SQL.
func registerTimed(db *gorm.DB, plugin string, after func(db *gorm.DB, operation string, elapsed time.Duration)) error {
	key := startTimeKey{plugin: plugin}
	before := func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		db.Statement.Context = context.WithValue(ctx, key, time.Now())
	}
	afterFor := func(operation string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			var elapsed time.Duration
			if db.Statement.Context != nil {
				if start, ok := db.Statement.Context.Value(key).(time.Time); ok {
					elapsed = time.Since(start)
				}
			}
			op := operation
			if op == "" {
				op = detectOperationType(db.Statement.SQL.String())
			}
			after(db, op, elapsed)
		}
	}

	cb := db.Callback()
	hooks := []struct {
		builtin   string
		operation string
		before    func(string, func(*gorm.DB)) error
		after     func(string, func(*gorm.DB)) error
	}{
		{"create", "INSERT", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", "SELECT", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", "UPDATE", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", "DELETE", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", "", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", "", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before(plugin+":before_"+h.builtin, before); err != nil {
			return err
		}
		if err := h.after(plugin+":after_"+h.builtin, afterFor(h.operation)); err != nil {
			return err
		}
	}
	return nil
}

// detectOperationType reads the SQL verb of a raw statement.
func detectOperationType(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}
