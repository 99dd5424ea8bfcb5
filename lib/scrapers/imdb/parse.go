package imdb

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var nameIdRegex = regexp.MustCompile(`/name/(nm\d+)`)
var yearRegex = regexp.MustCompile(`\((\d{4})\)`)
var trailingYearRegex = regexp.MustCompile(`\s*\(\d{4}\).*$`)
var ratingRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseNameID pulls the nm-identifier out of a profile link.
func ParseNameID(href string) (string, bool) {
	groups := nameIdRegex.FindStringSubmatch(href)
	if len(groups) < 2 {
		return "", false
	}
	return groups[1], true
}

// ParseTitleYear splits a bio-page link text of the form "Title (1994)"
// into its title and year. Entries without a 4-digit parenthetical year
// are not usable, ok is false for those.
func ParseTitleYear(text string) (title string, year int, ok bool) {
	groups := yearRegex.FindStringSubmatch(text)
	if len(groups) < 2 {
		return "", 0, false
	}
	year, err := strconv.Atoi(groups[1])
	if err != nil {
		return "", 0, false
	}

	title = strings.TrimSpace(trailingYearRegex.ReplaceAllString(text, ""))
	if title == "" {
		return "", 0, false
	}
	return title, year, true
}

// ParseRating turns the text of a rating element into a float in [0, 10].
// "N/A" and anything else unparsable comes back as 0, which downstream
// treats as unknown/unrated.
func ParseRating(text string) float64 {
	match := ratingRegex.FindString(text)
	if match == "" {
		return 0
	}
	rating, err := strconv.ParseFloat(match, 64)
	if err != nil || rating < 0 || rating > 10 {
		return 0
	}
	return rating
}

// CanonicalTitleURL normalizes a title href into an absolute URL with
// tracking query parameters stripped.
func CanonicalTitleURL(href string) (string, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return "", err
	}
	link, err := base.Parse(href)
	if err != nil {
		return "", err
	}
	link.RawQuery = ""
	link.Fragment = ""
	return link.String(), nil
}
