package utils

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 66.67, RoundFloat(66.666666, 2))
	assert.Equal(t, 66.66, RoundFloat(66.664, 2))
	assert.Equal(t, -12.5, RoundFloat(-12.499, 1))
	assert.Equal(t, 100.0, RoundFloat(100, 0))
}

func TestCreatePagination(t *testing.T) {
	p := CreatePagination(95, 2, 10)
	assert.Equal(t, 95, p.TotalItems)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 10, p.TotalPages)

	// defaults kick in for nonsense inputs
	p = CreatePagination(5, 0, -1)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 1, p.TotalPages)
}

func TestNullStringToStringPtr(t *testing.T) {
	assert.Nil(t, NullStringToStringPtr(sql.NullString{}))

	got := NullStringToStringPtr(sql.NullString{String: "itm-1", Valid: true})
	assert.NotNil(t, got)
	assert.Equal(t, "itm-1", *got)
}
