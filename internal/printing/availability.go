package printing

import (
	"sort"
	"strings"

	"studiohub/internal/index"
)

// Option is one printable sheet offered to the queue: a background variant
// for archive posters, a bare print file for studio posters.
type Option struct {
	Name            string
	Path            string
	Size            string
	Source          string
	PosterKey       string
	BackgroundKey   string
	BackgroundLabel string
}

// AvailableBySize lists the printable sheets per size for one source,
// sorted by display name then path. Posters with background variants
// contribute one option per existing variant, named "<poster> — <variant>";
// otherwise each print file is offered under the poster's display name.
func AvailableBySize(idx *index.Index, source string) map[string][]Option {
	results := make(map[string][]Option, len(index.PrintSizes))
	for _, size := range index.PrintSizes {
		results[size] = []Option{}
	}

	for posterKey, poster := range idx.Source(source) {
		display := poster.DisplayName
		if display == "" {
			display = posterKey
		}

		for _, size := range index.PrintSizes {
			rec, ok := poster.Sizes[size]
			if !ok || !rec.Exists {
				continue
			}

			if len(rec.Backgrounds) > 0 {
				for bgKey, bg := range rec.Backgrounds {
					if !bg.Exists || bg.Path == "" {
						continue
					}
					label := bg.Label
					if label == "" {
						label = bgKey
					}
					label = strings.TrimSpace(label)
					results[size] = append(results[size], Option{
						Name:            display + " — " + label,
						Path:            bg.Path,
						Size:            size,
						Source:          source,
						PosterKey:       posterKey,
						BackgroundKey:   bgKey,
						BackgroundLabel: label,
					})
				}
				continue
			}

			for _, path := range rec.Files {
				results[size] = append(results[size], Option{
					Name:      display,
					Path:      path,
					Size:      size,
					Source:    source,
					PosterKey: posterKey,
				})
			}
		}
	}

	for size, opts := range results {
		sort.Slice(opts, func(i, j int) bool {
			ni, nj := strings.ToLower(opts[i].Name), strings.ToLower(opts[j].Name)
			if ni != nj {
				return ni < nj
			}
			return strings.ToLower(opts[i].Path) < strings.ToLower(opts[j].Path)
		})
		results[size] = opts
	}
	return results
}
