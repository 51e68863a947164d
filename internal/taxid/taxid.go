// Package taxid validates and extracts Russian taxpayer identifiers (INN).
package taxid

// Checksum coefficients per the FNS algorithm. A 10-digit INN carries one
// check digit, a 12-digit INN carries two.
var (
	coeffs10   = []int{2, 4, 10, 3, 5, 9, 4, 6, 8}
	coeffs12a  = []int{7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
	coeffs12b  = []int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
	validSizes = map[int]bool{10: true, 12: true}
)

// Extract returns the first run of exactly 10 or 12 digits bounded by
// non-digit characters. The second return is false when no candidate exists.
func Extract(text string) (string, bool) {
	for _, candidate := range ExtractAll(text) {
		return candidate, true
	}
	return "", false
}

// ExtractAll returns every digit run of exactly 10 or 12 characters, in
// order of appearance. Runs of other lengths are skipped entirely.
func ExtractAll(text string) []string {
	var out []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if validSizes[end-start] {
			out = append(out, text[start:end])
		}
		start = -1
	}
	for i := 0; i < len(text); i++ {
		if text[i] >= '0' && text[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return out
}

// Validate reports whether id is a checksum-valid 10- or 12-digit INN.
// Invalid input is a normal negative result, never an error.
func Validate(id string) bool {
	if !validSizes[len(id)] {
		return false
	}
	digits := make([]int, len(id))
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
		digits[i] = int(id[i] - '0')
	}

	if len(digits) == 10 {
		return checksum(digits, coeffs10) == digits[9]
	}
	return checksum(digits, coeffs12a) == digits[10] &&
		checksum(digits, coeffs12b) == digits[11]
}

func checksum(digits, coeffs []int) int {
	sum := 0
	for i, c := range coeffs {
		sum += digits[i] * c
	}
	return sum % 11 % 10
}
