package release

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/shapedtime/neomovies/internal/neoapi"
)

// Quality tiers
const (
	Quality2160P  = "2160P"
	Quality4K     = "4K"
	Quality1080P  = "1080P"
	Quality720P   = "720P"
	QualityHD     = "HD"
	Quality480P   = "480P"
	QualityBDRip  = "BDRIP"
	QualityWEBRip = "WEBRIP"
	QualityHDTV   = "HDTV"
	QualityDVDRip = "DVDRIP"
	QualityTC     = "TC"
	QualityTS     = "TS"
	QualityCAMRip = "CAMRIP"
	QualityAll    = "ALL"
	Unknown       = "UNKNOWN"
)

// Info tags
const (
	TagRus   = "RUS"
	TagEng   = "ENG"
	TagX264  = "x264"
	TagX265  = "x265"
	TagHDR   = "HDR"
	TagDolby = "Dolby"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib

	promote = 1023.995 / 1024
)

// ParsedTorrent is a search result with the attributes derived from its title.
type ParsedTorrent struct {
	neoapi.TorrentResult

	QualityTier string   `json:"qualityTier"`
	Season      int      `json:"season,omitempty"`
	HasSeason   bool     `json:"hasSeason"`
	SizeLabel   string   `json:"sizeLabel"`
	Tags        []string `json:"tags,omitempty"`
	InfoHash    string   `json:"infoHash,omitempty"`
}

// ExtractQuality returns the normalized quality tier of a release title, or
// UNKNOWN. The leftmost token wins even when a more specific one follows.
func ExtractQuality(title string) string {
	m := patterns.Quality.FindString(title)
	if m == "" {
		return Unknown
	}

	q := strings.ToUpper(m)
	switch q {
	case "UHD", "4K":
		return Quality4K
	case "FHD":
		return Quality1080P
	case "HD":
		if patterns.Has720p.MatchString(title) {
			return QualityHD
		}
		return Quality720P
	case "SD":
		return Quality480P
	}
	return q
}

// ExtractSeason returns the season number named in a title.
func ExtractSeason(title string) (int, bool) {
	for _, re := range patterns.Seasons {
		m := re.FindStringSubmatch(title)
		if len(m) < 2 {
			continue
		}
		if n, ok := parseInt(m[1]); ok {
			return n, true
		}
	}
	return 0, false
}

// FormatSize renders a byte count as GB, MB or KB with two decimals.
// Anything that is not a positive number is returned unchanged.
func FormatSize(raw string) string {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return raw
	}

	// A value that would print as 1024.00 of a unit moves up to the next one.
	switch {
	case n >= gib*promote:
		return fmt.Sprintf("%.2f GB", n/gib)
	case n >= mib*promote:
		return fmt.Sprintf("%.2f MB", n/mib)
	default:
		return fmt.Sprintf("%.2f KB", n/kib)
	}
}

// Tags lists the audio and video hints found in a title, in a fixed order.
func Tags(title string) []string {
	var tags []string
	if patterns.Rus.MatchString(title) {
		tags = append(tags, TagRus)
	}
	if patterns.Eng.MatchString(title) {
		tags = append(tags, TagEng)
	}
	if patterns.X264.MatchString(title) {
		tags = append(tags, TagX264)
	}
	if patterns.X265.MatchString(title) {
		tags = append(tags, TagX265)
	}
	if patterns.HDR.MatchString(title) {
		tags = append(tags, TagHDR)
	}
	if patterns.Dolby.MatchString(title) {
		tags = append(tags, TagDolby)
	}
	return tags
}

// Parse derives quality, season, size label, tags and info-hash for one
// result. Seasons are only read for non-movie media.
func Parse(t neoapi.TorrentResult, mediaType neoapi.MediaType) ParsedTorrent {
	p := ParsedTorrent{
		TorrentResult: t,
		QualityTier:   ExtractQuality(t.Title),
		SizeLabel:     FormatSize(string(t.Size)),
		Tags:          Tags(t.Title),
		InfoHash:      InfoHash(t.Magnet),
	}
	if mediaType != neoapi.MediaTypeMovie {
		p.Season, p.HasSeason = ExtractSeason(t.Title)
	}
	return p
}

// ParseAll parses every result, keeping order.
func ParseAll(results []neoapi.TorrentResult, mediaType neoapi.MediaType) []ParsedTorrent {
	out := make([]ParsedTorrent, 0, len(results))
	for _, r := range results {
		out = append(out, Parse(r, mediaType))
	}
	return out
}

// InfoHash returns the hex info-hash of a magnet URI, or "" when the magnet
// cannot be parsed.
func InfoHash(magnet string) string {
	if magnet == "" {
		return ""
	}
	m, err := metainfo.ParseMagnetUri(magnet)
	if err != nil {
		return ""
	}
	return m.InfoHash.HexString()
}

// Dedup drops results whose info-hash, or magnet when there is no hash,
// was already seen. The first occurrence is kept.
func Dedup(torrents []ParsedTorrent) []ParsedTorrent {
	seen := make(map[string]struct{}, len(torrents))
	out := make([]ParsedTorrent, 0, len(torrents))
	for _, t := range torrents {
		key := t.InfoHash
		if key == "" {
			key = t.Magnet
		}
		if key != "" {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, t)
	}
	return out
}
