package pagination_test

import (
	"testing"

	"github.com/sangkips/duka-pos/pkg/pagination"
	"github.com/stretchr/testify/assert"
)

func TestValidateClampsParams(t *testing.T) {
	t.Parallel()

	p := &pagination.PaginationParams{Page: -3, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, pagination.MaxPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset())

	p = &pagination.PaginationParams{Page: 3, PerPage: 0}
	p.Validate()
	assert.Equal(t, pagination.DefaultPerPage, p.PerPage)
	assert.Equal(t, 30, p.Offset())
}

func TestNewPagination(t *testing.T) {
	t.Parallel()

	pag := pagination.NewPagination(2, 10, 25)
	assert.Equal(t, 3, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	pag = pagination.NewPagination(1, 10, 0)
	assert.Equal(t, 0, pag.TotalPages)
	assert.False(t, pag.HasNext)
	assert.False(t, pag.HasPrev)
}

func TestNewPaginatedResultNeverNil(t *testing.T) {
	t.Parallel()

	res := pagination.NewPaginatedResult[string](nil, pagination.NewPagination(1, 15, 0))
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}
