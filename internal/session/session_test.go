package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
	"github.com/KaramelBytes/showloom-cli/internal/filter"
	"github.com/KaramelBytes/showloom-cli/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "Title,Premiere,Genre,Status,Table,Language,Length\n" +
	"Alpha,14-Jan-20,Drama/Comedy,Renewed,Series,English,40-50 min\n" +
	"Beta,02-Mar-21,Drama,Ended,Series,Turkish,30 min\n" +
	"Gamma,10-Oct-21,Action & Drama,Miniseries,Docuseries,English,60 min\n"

func TestLoad_UploadAndView(t *testing.T) {
	s := New(Options{}, nil)
	l, err := s.Load(context.Background(), Upload("titles.csv", []byte(sample)))
	require.NoError(t, err)
	assert.Equal(t, 3, l.Dataset.Len())
	assert.Equal(t, "utf-8", l.Encoding)

	v, err := s.View(Request{TopN: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Total)
	assert.Len(t, v.Preview, 3)
	assert.Equal(t, "Alpha", v.Preview[0]["Title"])
	assert.True(t, v.Controls.CategoryOffered)
	assert.Equal(t, "drama", v.Panels.TopGenres.Data[0].Value)
	assert.Equal(t, 3, v.Panels.TopGenres.Data[0].Count)
	assert.Contains(t, v.Report, "Data Range: 2020-2021")
	assert.Contains(t, v.Report, "Latest Year (2021): 2 titles")
}

func TestLoad_CacheHitOnIdenticalContent(t *testing.T) {
	s := New(Options{}, nil)
	ctx := context.Background()
	first, err := s.Load(ctx, Upload("a.csv", []byte(sample)))
	require.NoError(t, err)
	second, err := s.Load(ctx, Upload("b.csv", []byte(sample)))
	require.NoError(t, err)
	assert.Same(t, first.Dataset, second.Dataset)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, "a.csv", first.Name)
	assert.Equal(t, "b.csv", second.Name)

	v, err := s.View(Request{TopN: 3})
	require.NoError(t, err)
	assert.Equal(t, "b.csv", v.Source)

	hits, misses := s.Cache().Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestLoad_NewContentInvalidates(t *testing.T) {
	s := New(Options{}, nil)
	ctx := context.Background()
	first, err := s.Load(ctx, Upload("a.csv", []byte(sample)))
	require.NoError(t, err)
	other, err := s.Load(ctx, Upload("a.csv", []byte(sample+"Delta,01-Jan-22,Drama,TBD,Series,English,20 min\n")))
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, other.Key)
	assert.Equal(t, 1, s.Cache().Len())
	assert.Equal(t, 4, s.Current().Dataset.Len())
}

func TestLoad_SchemaErrorLeavesEmptyDataset(t *testing.T) {
	s := New(Options{}, nil)
	ctx := context.Background()
	_, err := s.Load(ctx, Upload("ok.csv", []byte(sample)))
	require.NoError(t, err)

	_, err = s.Load(ctx, Upload("bad.csv", []byte("Name,Year\nX,2020\n")))
	var se *dataset.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"Title", "Premiere"}, se.Missing)
	assert.Equal(t, 0, s.Current().Dataset.Len())

	_, err = s.View(Request{})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestLoad_IngestionError(t *testing.T) {
	dec, err := parser.New(parser.Options{Encoding: "utf-8"})
	require.NoError(t, err)
	s := New(Options{Decoder: dec}, nil)
	_, err = s.Load(context.Background(), Upload("bin.csv", []byte{0xff, 0xfe, 0x00}))
	var ie *parser.IngestionError
	require.True(t, errors.As(err, &ie))
}

func TestLoad_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "titles.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s := New(Options{PreviewRows: 1}, nil)
	l, err := s.Load(context.Background(), LocalFile(path))
	require.NoError(t, err)
	assert.Equal(t, "titles.csv", l.Dataset.Name)

	v, err := s.View(Request{Criteria: filter.Criteria{Years: &filter.YearRange{Min: 2021, Max: 2021}}})
	require.NoError(t, err)
	assert.Equal(t, 2, v.Total)
	assert.Len(t, v.Preview, 1)

	_, err = s.Load(context.Background(), LocalFile(filepath.Join(dir, "missing.csv")))
	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(Options{}, nil)
	_, err := s.Load(ctx, Upload("a.csv", []byte(sample)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_MatchesView(t *testing.T) {
	s := New(Options{}, nil)
	_, err := s.Load(context.Background(), Upload("a.csv", []byte(sample)))
	require.NoError(t, err)

	req := Request{Criteria: filter.Criteria{Categories: []string{"Series"}}}
	rep, err := s.Report(req)
	require.NoError(t, err)
	v, err := s.View(req)
	require.NoError(t, err)
	assert.Equal(t, v.Report, rep.Lines)
	assert.Contains(t, rep.Lines, "Total (Filtered): 2 titles")
	assert.Contains(t, rep.Lines, "Avg Episode Length: 38 min")
}

func TestStore(t *testing.T) {
	st := NewStore(Options{}, nil)
	s := st.Create()
	got, err := st.Get(s.ID.String())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get("not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Delete(s.ID.String()))
	assert.ErrorIs(t, st.Delete(s.ID.String()), ErrNotFound)
	assert.Equal(t, 0, st.Len())
}
