package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/bookloan-service/internal/model"
)

func Test_sortSpec_orderBy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		spec   sortSpec
		params model.ListParams
		want   string
	}{
		{
			name:   "known field",
			spec:   bookSort,
			params: model.ListParams{SortBy: "author"},
			want:   "author asc",
		},
		{
			name:   "unknown field falls back to default",
			spec:   bookSort,
			params: model.ListParams{SortBy: "nope; drop table book"},
			want:   "title asc",
		},
		{
			name:   "empty field falls back to default",
			spec:   memberSort,
			params: model.ListParams{},
			want:   "first_name asc",
		},
		{
			name:   "desc direction",
			spec:   loanSort,
			params: model.ListParams{SortBy: "dueDate", SortDir: "DESC"},
			want:   "due_date desc",
		},
		{
			name:   "invalid direction falls back to asc",
			spec:   paymentSort,
			params: model.ListParams{SortBy: "amount", SortDir: "sideways"},
			want:   "amount asc",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.spec.orderBy(tt.params))
		})
	}
}

func Test_searchAny(t *testing.T) {
	t.Parallel()

	sql, args, err := searchAny("asimov", "title", "author", "genre", "isbn_no").ToSql()
	require.NoError(t, err)
	require.Equal(t, "(title ILIKE ? OR author ILIKE ? OR genre ILIKE ? OR isbn_no ILIKE ?)", sql)
	require.Equal(t, []interface{}{"%asimov%", "%asimov%", "%asimov%", "%asimov%"}, args)
}

func Test_withPaging(t *testing.T) {
	t.Parallel()

	q := qb.Select("id").From(bookTableName)

	sql, _, err := withPaging(q, model.ListParams{Limit: 10, Offset: 20}).ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM book LIMIT 10 OFFSET 20", sql)

	// zero values mean "everything"
	sql, _, err = withPaging(q, model.ListParams{}).ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM book", sql)
}
