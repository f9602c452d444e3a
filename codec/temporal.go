package codec

import (
	"fmt"
	"time"

	"github.com/clxdsjyx/pandas-msgpack/errs"
	"github.com/clxdsjyx/pandas-msgpack/frame"
)

// naiveLayout is the zone-free ISO-8601 form used for bare datetime64
// values. Trailing fractional digits are omitted when zero.
const naiveLayout = "2006-01-02T15:04:05.999999999"

const dateLayout = "2006-01-02"

// datetimeLayouts are the accepted textual datetime forms, tried in order.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	naiveLayout,
	"2006-01-02 15:04:05.999999999",
	dateLayout,
}

func formatDatetime64(ns int64) string {
	return time.Unix(0, ns).UTC().Format(naiveLayout)
}

func parseDatetimeText(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unparseable datetime %q", errs.ErrMalformedRecord, s)
}

func formatDate(d frame.Date) string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

func parseDate(s string) (frame.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return frame.Date{}, fmt.Errorf("%w: unparseable date %q", errs.ErrMalformedRecord, s)
	}

	return frame.DateOf(t), nil
}
