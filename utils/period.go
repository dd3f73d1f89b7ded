package utils

import (
	"fmt"
	"regexp"
	"time"
)

var periodRE = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// MonthRange mengubah "YYYY-MM" jadi [awal bulan, awal bulan berikutnya) UTC.
func MonthRange(period string) (start, end time.Time, err error) {
	m := periodRE.FindStringSubmatch(period)
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("periode harus berformat YYYY-MM")
	}
	var y, mo int
	fmt.Sscanf(period, "%d-%d", &y, &mo)
	if mo < 1 || mo > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("bulan tidak valid: %s", period)
	}
	start = time.Date(y, time.Month(mo), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end, nil
}

// Rolling12Months: jendela 12 bulan terakhir berakhir sekarang.
func Rolling12Months(now time.Time) (start, end time.Time) {
	end = now
	start = now.AddDate(-1, 0, 0)
	return start, end
}
