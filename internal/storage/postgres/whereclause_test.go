package postgres

import (
	"testing"
	"time"

	"github.com/fitai/fitai/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	w := &whereBuilder{}
	w.add("user_id = ?", "u1")
	w.period("log_date", storage.Period{From: &from})
	w.search("squat", "name", "description")
	limit := w.limit(50)

	assert.Equal(t, " WHERE user_id = $1 AND log_date >= $2 AND (name ILIKE $3 OR description ILIKE $3)", w.sql())
	assert.Equal(t, " LIMIT $4", limit)
	assert.Equal(t, []any{"u1", from, "%squat%", 50}, w.args)
}

func TestWhereBuilderEmpty(t *testing.T) {
	w := &whereBuilder{}
	w.search("", "name")

	assert.Equal(t, "", w.sql())
	assert.Equal(t, "", w.limit(0))
	assert.Empty(t, w.args)
}
