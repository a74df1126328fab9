package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_DollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "name").
		From("staff").
		Where(squirrel.Eq{"id": 7, "is_active": true}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM staff WHERE id = $1 AND is_active = $2", query)
	assert.Equal(t, []interface{}{7, true}, args)
}

func TestInsert_Returning(t *testing.T) {
	query, args, err := Insert("appointments").
		Columns("staff_id", "status").
		Values(1, "pending").
		Suffix("RETURNING id").
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO appointments (staff_id,status) VALUES ($1,$2) RETURNING id", query)
	assert.Len(t, args, 2)
}
