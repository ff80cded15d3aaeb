package table

import "time"

// SliceBySessionUTC keeps only the rows whose UTC time-of-day falls within
// [startHMS, endHMS). Both bounds are "HH:MM:SS" strings. A session that
// crosses midnight (end <= start) wraps: rows are kept if their
// time-of-day is >= start OR < end.
func SliceBySessionUTC(t ColumnTable, startHMS, endHMS string) (ColumnTable, error) {
	start, err := parseHMS(startHMS)
	if err != nil {
		return ColumnTable{}, err
	}
	end, err := parseHMS(endHMS)
	if err != nil {
		return ColumnTable{}, err
	}

	crossesMidnight := end <= start
	rows := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		tod := timeOfDay(t.Index.At(i))
		in := false
		if crossesMidnight {
			in = tod >= start || tod < end
		} else {
			in = tod >= start && tod < end
		}
		if in {
			rows = append(rows, i)
		}
	}
	return t.selectRows(rows), nil
}

// timeOfDay returns seconds since UTC midnight for t.
func timeOfDay(t time.Time) int {
	u := t.UTC()
	return u.Hour()*3600 + u.Minute()*60 + u.Second()
}

func parseHMS(hms string) (int, error) {
	tm, err := time.Parse("15:04:05", hms)
	if err != nil {
		return 0, err
	}
	return tm.Hour()*3600 + tm.Minute()*60 + tm.Second(), nil
}
