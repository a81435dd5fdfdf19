package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PadsShortRows(t *testing.T) {
	ds := New("x.csv", []string{"Title", "Premiere"}, [][]string{{"A", "01-Jan-20"}, {"B"}})
	require.Equal(t, 2, ds.Len())

	v, ok := ds.Records[0].Get("Premiere")
	assert.True(t, ok)
	assert.Equal(t, "01-Jan-20", v)

	_, ok = ds.Records[1].Get("Premiere")
	assert.False(t, ok)
	assert.Equal(t, StatusOther, ds.Records[1].StatusCategory)
}

func TestRecordGet_BlankIsMissing(t *testing.T) {
	r := &Record{Fields: map[string]string{"Status": "   "}}
	_, ok := r.Get("Status")
	assert.False(t, ok)

	var nilRec *Record
	_, ok = nilRec.Get("Status")
	assert.False(t, ok)
}

func TestRequireColumns(t *testing.T) {
	ds := New("x.csv", []string{"Title", "Genre"}, nil)
	assert.NoError(t, RequireColumns(ds, "Title"))

	err := RequireColumns(ds, "Title", "Premiere")
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"Premiere"}, se.Missing)
	assert.Contains(t, err.Error(), "'Premiere'")
}

func TestMaybe(t *testing.T) {
	v, ok := Some(3.5).Get()
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, ok = None[int]().Get()
	assert.False(t, ok)
}

func TestCounter_RankedTiesKeepFirstSeen(t *testing.T) {
	c := NewCounter()
	for _, v := range []string{"drama", "drama", "comedy", "action", "action", "action", "horror"} {
		c.Add(v)
	}
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"drama", "comedy", "action", "horror"}, c.Distinct())
	assert.Equal(t, []ValueCount{{"action", 3}, {"drama", 2}, {"comedy", 1}}, c.Ranked(3))
	assert.Len(t, c.Ranked(0), 4)
}
