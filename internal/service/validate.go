package service

import "regexp"

// mobilePattern matches ten-digit mobile numbers on the 97/98 prefixes
var mobilePattern = regexp.MustCompile(`^(97|98)\d{8}$`)

// ValidMobile reports whether s is an accepted contact or driver number
func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func validWard(ward *int) bool {
	return ward == nil || *ward > 0
}

// pageBounds normalizes a 1-indexed page and a size capped at max
func pageBounds(page, size, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	if size > max {
		size = max
	}
	return page, size
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
