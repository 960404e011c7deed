package season

import "time"

// Season 季节标签
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	// Eternal 仅用于俳句耗尽后的收尾视图，不属于任何日期
	Eternal Season = "eternal"
)

// referenceYear 闰年，保证 2 月 29 日有落点
const referenceYear = 2000

type dayRange struct {
	season Season
	start  time.Time
	end    time.Time
}

func md(month time.Month, day int) time.Time {
	return time.Date(referenceYear, month, day, 0, 0, 0, 0, time.UTC)
}

// table 五段连续且互不重叠的区间，冬季跨年拆成首尾两段
var table = []dayRange{
	{Winter, md(time.January, 1), md(time.March, 20)},
	{Spring, md(time.March, 21), md(time.June, 20)},
	{Summer, md(time.June, 21), md(time.September, 22)},
	{Autumn, md(time.September, 23), md(time.December, 20)},
	{Winter, md(time.December, 21), md(time.December, 31)},
}

// Classify 返回日期所属季节（忽略年份）
func Classify(t time.Time) Season {
	d := md(t.Month(), t.Day())
	for _, r := range table {
		if !d.Before(r.start) && !d.After(r.end) {
			return r.season
		}
	}
	// 表覆盖全年，走不到这里
	panic("season: date outside season table: " + d.Format("01-02"))
}

// Parse 校验入库数据的季节标签
func Parse(s string) (Season, bool) {
	switch Season(s) {
	case Winter, Spring, Summer, Autumn:
		return Season(s), true
	}
	return "", false
}

func (s Season) String() string { return string(s) }
