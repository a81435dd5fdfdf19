package analysis

import (
	"testing"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
)

func TestBuildReport_AllLines(t *testing.T) {
	byYear := []YearCount{{2019, 2}, {2020, 3}}
	top := []dataset.ValueCount{{Value: "drama", Count: 4}}
	recs := []*dataset.Record{
		{EpisodeLengthAvg: dataset.Some(40.0)},
		{EpisodeLengthAvg: dataset.Some(44.0)},
		{EpisodeLengthAvg: dataset.None[float64]()},
	}
	rep := BuildReport(byYear, top, recs)
	want := "Data Range: 2019-2020\n" +
		"Latest Year (2020): 3 titles\n" +
		"Total (Filtered): 5 titles\n" +
		"Popular Genre: drama (4 titles)\n" +
		"Avg Episode Length: 42 min"
	assert.Equal(t, want, rep.Text())
}

func TestBuildReport_OmitsUnavailableFacts(t *testing.T) {
	rep := BuildReport([]YearCount{{2021, 1}}, nil, []*dataset.Record{{}})
	assert.Equal(t, []string{
		"Data Range: 2021-2021",
		"Latest Year (2021): 1 titles",
		"Total (Filtered): 1 titles",
	}, rep.Lines)
}

func TestBuildReport_CanBeEmpty(t *testing.T) {
	rep := BuildReport(nil, nil, nil)
	assert.True(t, rep.Empty())
	assert.Equal(t, "", rep.Text())
}
