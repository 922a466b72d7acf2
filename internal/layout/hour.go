package layout

import "fmt"

// FormatHour labels an hour gridline. With clock 24 it renders "07:00";
// otherwise it uses the 12-hour form, where 0 is "12 AM" and 12 is "12 PM".
func FormatHour(hour, clock int) string {
	if clock == 24 {
		return fmt.Sprintf("%02d:00", hour)
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d %s", h, suffix)
}
