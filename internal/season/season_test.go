package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Boundaries(t *testing.T) {
	cases := []struct {
		date string
		want Season
	}{
		{"2025-01-01", Winter},
		{"2025-03-20", Winter},
		{"2025-03-21", Spring},
		{"2025-06-20", Spring},
		{"2025-06-21", Summer},
		{"2025-09-22", Summer},
		{"2025-09-23", Autumn},
		{"2025-12-20", Autumn},
		{"2025-12-21", Winter},
		{"2025-12-31", Winter},
		{"2024-02-29", Winter},
		{"1999-07-04", Summer},
	}
	for _, tc := range cases {
		t.Run(tc.date, func(t *testing.T) {
			d, err := time.Parse(time.DateOnly, tc.date)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, Classify(d))
		})
	}
}

// 遍历闰年全部 366 天，每天恰好命中一个区间
func TestTable_PartitionsLeapYear(t *testing.T) {
	valid := map[Season]bool{Winter: true, Spring: true, Summer: true, Autumn: true}
	days := 0
	for d := md(time.January, 1); d.Year() == referenceYear; d = d.AddDate(0, 0, 1) {
		hits := 0
		for _, r := range table {
			if !d.Before(r.start) && !d.After(r.end) {
				hits++
			}
		}
		assert.Equal(t, 1, hits, "day %s", d.Format("01-02"))
		assert.True(t, valid[Classify(d)])
		days++
	}
	assert.Equal(t, 366, days)
}

func TestClassify_IgnoresTimeOfDayAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	assert.Equal(t, Spring, Classify(time.Date(2030, 3, 21, 23, 59, 0, 0, loc)))
}

func TestParse(t *testing.T) {
	s, ok := Parse("autumn")
	assert.True(t, ok)
	assert.Equal(t, Autumn, s)

	_, ok = Parse("eternal")
	assert.False(t, ok)
	_, ok = Parse("Autumn")
	assert.False(t, ok)
}
