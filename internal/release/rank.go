package release

import (
	"sort"
)

// QualityOrder is the display preference, best first. Tiers not listed here
// rank after all of these.
var QualityOrder = []string{
	Quality2160P,
	Quality4K,
	Quality1080P,
	Quality720P,
	QualityHD,
	Quality480P,
	QualityBDRip,
	QualityWEBRip,
	QualityHDTV,
	QualityDVDRip,
	QualityTC,
	QualityTS,
	QualityCAMRip,
}

var qualityRank = func() map[string]int {
	m := make(map[string]int, len(QualityOrder))
	for i, q := range QualityOrder {
		m[q] = i
	}
	return m
}()

// Rank returns the position of a tier in QualityOrder, or len(QualityOrder)
// for unrecognized tiers.
func Rank(tier string) int {
	if r, ok := qualityRank[tier]; ok {
		return r
	}
	return len(QualityOrder)
}

// SortByQuality returns a copy ordered by QualityOrder. Ties keep their
// original order.
func SortByQuality(torrents []ParsedTorrent) []ParsedTorrent {
	out := make([]ParsedTorrent, len(torrents))
	copy(out, torrents)
	sort.SliceStable(out, func(i, j int) bool {
		return Rank(out[i].QualityTier) < Rank(out[j].QualityTier)
	})
	return out
}

// FilterBySeason keeps torrents for season. A torrent whose title names no
// season is matched against the seasons the server listed for it, and kept
// when there are none.
func FilterBySeason(torrents []ParsedTorrent, season int) []ParsedTorrent {
	out := make([]ParsedTorrent, 0, len(torrents))
	for _, t := range torrents {
		if t.HasSeason {
			if t.Season == season {
				out = append(out, t)
			}
			continue
		}
		if len(t.Seasons) == 0 {
			out = append(out, t)
			continue
		}
		for _, s := range t.Seasons {
			if s == season {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// FilterByQuality keeps torrents of one tier. An empty tier or QualityAll
// keeps everything.
func FilterByQuality(torrents []ParsedTorrent, tier string) []ParsedTorrent {
	if tier == "" || tier == QualityAll {
		return torrents
	}
	out := make([]ParsedTorrent, 0, len(torrents))
	for _, t := range torrents {
		if t.QualityTier == tier {
			out = append(out, t)
		}
	}
	return out
}

// Qualities lists the distinct tiers present, in preference order.
// Unrecognized tiers follow in order of first appearance.
func Qualities(torrents []ParsedTorrent) []string {
	seen := make(map[string]struct{})
	var tiers []string
	for _, t := range torrents {
		if _, ok := seen[t.QualityTier]; ok {
			continue
		}
		seen[t.QualityTier] = struct{}{}
		tiers = append(tiers, t.QualityTier)
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		return Rank(tiers[i]) < Rank(tiers[j])
	})
	return tiers
}

// DiscoverSeasons returns remote when it is non-empty. Otherwise seasons are
// inferred from the torrents' titles, deduplicated and sorted ascending.
func DiscoverSeasons(remote []int, torrents []ParsedTorrent) []int {
	if len(remote) > 0 {
		return remote
	}

	seen := make(map[int]struct{})
	var seasons []int
	for _, t := range torrents {
		if !t.HasSeason {
			continue
		}
		if _, ok := seen[t.Season]; ok {
			continue
		}
		seen[t.Season] = struct{}{}
		seasons = append(seasons, t.Season)
	}
	sort.Ints(seasons)
	return seasons
}
