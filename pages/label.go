package pages

import "strconv"

// PageLabel formats the printed page range for the output record: "N" when
// the article starts at printed page 1, "first-last" otherwise.
func PageLabel(first, last int) string {
	if first > 1 {
		return strconv.Itoa(first) + "-" + strconv.Itoa(last)
	}
	return strconv.Itoa(last)
}
