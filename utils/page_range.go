package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned when a page range expression does not follow the format "1-5, 8, 11-13"
var ErrInvalidRange = errors.New("invalid page range")

// pageRangeRegex accepts comma separated tokens N or N-M; a single space after a comma is the only whitespace allowed
var pageRangeRegex = regexp.MustCompile(`^\d+(-\d+)?(, ?\d+(-\d+)?)*$`)

// pageSpan is one token of a page range expression, First == Last for single pages
type pageSpan struct {
	First int
	Last  int
}

// parsePageRange parses the whole expression; every rule of the grammar is checked here
// so ValidatePageRange and ResolvePageCount can never disagree
func parsePageRange(input string) ([]pageSpan, error) {
	if !pageRangeRegex.MatchString(input) {
		return nil, fmt.Errorf("%w: %q does not match the format \"1-5, 8, 11-13\"", ErrInvalidRange, input)
	}

	tokens := strings.Split(input, ",")
	spans := make([]pageSpan, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimPrefix(token, " ")

		bounds := strings.SplitN(token, "-", 2)
		first, err := parsePageNumber(bounds[0])
		if err != nil {
			return nil, err
		}
		last := first
		if len(bounds) == 2 {
			last, err = parsePageNumber(bounds[1])
			if err != nil {
				return nil, err
			}
		}

		if first > last {
			return nil, fmt.Errorf("%w: range %q starts after it ends", ErrInvalidRange, token)
		}
		spans = append(spans, pageSpan{First: first, Last: last})
	}
	return spans, nil
}

func parsePageNumber(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: page number %q out of range", ErrInvalidRange, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: page numbers start at 1, got %d", ErrInvalidRange, n)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: page number %d too large", ErrInvalidRange, n)
	}
	return int(n), nil
}

// ValidatePageRange reports whether input is a valid page range expression.
// Example: "1-5,8,11-13" and "1-5, 8, 11-13" are valid, "1-5,,8" and "abc" are not.
func ValidatePageRange(input string) bool {
	_, err := parsePageRange(input)
	return err == nil
}

// ResolvePageCount returns the number of pages selected by a page range expression.
// Example: "1-5, 8, 11-13" selects 5 + 1 + 3 = 9 pages.
// The pages are not checked against the document's real page total.
func ResolvePageCount(input string) (int, error) {
	spans, err := parsePageRange(input)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, span := range spans {
		total += span.Last - span.First + 1
	}
	return total, nil
}
