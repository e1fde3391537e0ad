package release

import (
	"regexp"
	"strconv"
)

// CompiledPatterns contains the precompiled patterns used to read release titles
type CompiledPatterns struct {
	// Quality token, first occurrence wins
	Quality *regexp.Regexp // 2160p, 4K, UHD, 1080p, FHD, 720p, HD, 480p, SD, CAMRip, TS, ...
	Has720p *regexp.Regexp

	// Season patterns, tried in order
	Seasons []*regexp.Regexp

	// Info tags
	Rus   *regexp.Regexp
	Eng   *regexp.Regexp
	X264  *regexp.Regexp
	X265  *regexp.Regexp // x265, HEVC
	HDR   *regexp.Regexp
	Dolby *regexp.Regexp
}

// NewCompiledPatterns creates and returns all compiled patterns
func NewCompiledPatterns() *CompiledPatterns {
	return &CompiledPatterns{
		Quality: regexp.MustCompile(`(?i)(2160p|4K|UHD|1080p|FHD|720p|HD|480p|SD|CAMRip|TS|TC|DVDRip|BDRip|WEBRip|HDTV)`),
		Has720p: regexp.MustCompile(`(?i)720p`),

		Seasons: []*regexp.Regexp{
			// S03 standing alone
			regexp.MustCompile(`(?i)\bS(\d{1,2})\b`),
			// Season 3, Season3
			regexp.MustCompile(`(?i)Season\s*(\d+)`),
			// Сезон 3
			regexp.MustCompile(`(?i)Сезон\s*(\d+)`),
			// S03E05
			regexp.MustCompile(`(?i)S(\d{1,2})E\d{1,3}`),
			// 3 сезон
			regexp.MustCompile(`(?i)(\d+)\s*сезон`),
		},

		Rus:   regexp.MustCompile(`(?i)RUS`),
		Eng:   regexp.MustCompile(`(?i)ENG`),
		X264:  regexp.MustCompile(`(?i)x264`),
		X265:  regexp.MustCompile(`(?i)x265|HEVC`),
		HDR:   regexp.MustCompile(`(?i)HDR`),
		Dolby: regexp.MustCompile(`(?i)Dolby`),
	}
}

var patterns = NewCompiledPatterns()

// parseInt converts a digit run to int. ok is false for empty, non-numeric
// or out-of-range input.
func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
