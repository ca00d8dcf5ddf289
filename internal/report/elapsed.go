package report

import "fmt"

// FormatElapsed renders whole seconds as "N seconds" under a minute, and
// "M minutes and S seconds" otherwise, dropping the seconds clause when S is zero.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return plural(seconds, "second")
	}
	minutes, rem := seconds/60, seconds%60
	out := plural(minutes, "minute")
	if rem > 0 {
		out += " and " + plural(rem, "second")
	}
	return out
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
