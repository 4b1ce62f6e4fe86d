package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Les2015/auto-repair-shop/internal/record"
)

func TestID(t *testing.T) {
	t.Run("Persisted", func(t *testing.T) {
		assert.False(t, record.Unsaved.Persisted())
		assert.False(t, record.ID("").Persisted())
		assert.True(t, record.ID("2f1b4f5e").Persisted())
	})

	t.Run("Normalize", func(t *testing.T) {
		assert.Equal(t, record.Unsaved, record.Normalize(""))
		assert.Equal(t, record.Unsaved, record.Normalize("-1"))
		assert.Equal(t, record.ID("abc"), record.Normalize("abc"))
	})
}
