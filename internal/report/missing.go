package report

import (
	"sort"
	"strings"

	"studiohub/internal/index"
	"studiohub/internal/textutil"
)

// ExpectedBackgroundNames are the background variants every archive print
// size is expected to offer once it has any output at all.
var ExpectedBackgroundNames = []string{"Antique Parchment", "Blueprint", "Chalkboard"}

// MissingBackground names one expected background variant and the sizes
// that have print output but lack it.
type MissingBackground struct {
	Key   string
	Label string
	Sizes []string
}

// MissingSet lists the deliverables one poster is missing. Master and Web
// are only meaningful for studio posters; Backgrounds only for archive.
type MissingSet struct {
	Master      bool
	Web         bool
	Sizes       []string
	Backgrounds []MissingBackground
}

// Empty reports whether nothing is missing.
func (m MissingSet) Empty() bool {
	return !m.Master && !m.Web && len(m.Sizes) == 0 && len(m.Backgrounds) == 0
}

// MissingPoster is one poster with at least one missing deliverable.
type MissingPoster struct {
	Folder      string
	DisplayName string
	Missing     MissingSet
}

// MissingReport covers both sources. Posters with nothing missing are
// omitted entirely.
type MissingReport struct {
	Archive []MissingPoster
	Studio  []MissingPoster
}

// Empty reports whether every poster in both sources is complete.
func (r *MissingReport) Empty() bool {
	return r == nil || (len(r.Archive) == 0 && len(r.Studio) == 0)
}

// BuildMissing derives the missing-files report from a loaded index.
func BuildMissing(idx *index.Index) *MissingReport {
	return &MissingReport{
		Archive: MissingArchive(idx),
		Studio:  MissingStudio(idx),
	}
}

// MissingArchive reports archive posters that lack print output for a size
// or an expected background variant. The index does not track archive
// master/web renditions, so those are never flagged here.
func MissingArchive(idx *index.Index) []MissingPoster {
	expected := expectedBackgrounds()
	posters := idx.Source(index.SourceArchive)

	var out []MissingPoster
	for _, folder := range sortedFolders(posters) {
		poster := posters[folder]

		hasOutput := make(map[string]bool, len(index.PrintSizes))
		for _, size := range index.PrintSizes {
			hasOutput[size] = archiveSizeHasOutput(poster.Sizes[size])
		}

		var missing MissingSet
		for _, size := range index.PrintSizes {
			if !hasOutput[size] {
				missing.Sizes = append(missing.Sizes, size)
			}
		}

		// Background gaps only make sense for sizes that produced output:
		// a size with no output at all is already listed above.
		bySizes := make(map[string][]string, len(expected))
		for _, size := range index.PrintSizes {
			if !hasOutput[size] {
				continue
			}
			existing := existingBackgroundKeys(poster.Sizes[size])
			for _, bg := range expected {
				if _, ok := existing[bg.Key]; !ok {
					bySizes[bg.Key] = append(bySizes[bg.Key], size)
				}
			}
		}
		for _, bg := range expected {
			sizes := bySizes[bg.Key]
			if len(sizes) == 0 {
				continue
			}
			sort.Strings(sizes)
			missing.Backgrounds = append(missing.Backgrounds, MissingBackground{
				Key:   bg.Key,
				Label: bg.Label,
				Sizes: sizes,
			})
		}

		if missing.Empty() {
			continue
		}
		out = append(out, MissingPoster{
			Folder:      folder,
			DisplayName: displayName(poster, folder),
			Missing:     missing,
		})
	}
	return out
}

// MissingStudio reports studio posters missing their master, web rendition,
// or print files for a size. Master and web presence comes straight from
// the index record.
func MissingStudio(idx *index.Index) []MissingPoster {
	posters := idx.Source(index.SourceStudio)

	var out []MissingPoster
	for _, folder := range sortedFolders(posters) {
		poster := posters[folder]

		missing := MissingSet{
			Master: !poster.Exists.Master,
			Web:    !poster.Exists.Web,
		}
		for _, size := range index.PrintSizes {
			if len(poster.Sizes[size].Files) == 0 {
				missing.Sizes = append(missing.Sizes, size)
			}
		}

		if missing.Empty() {
			continue
		}
		out = append(out, MissingPoster{
			Folder:      folder,
			DisplayName: displayName(poster, folder),
			Missing:     missing,
		})
	}
	return out
}

// archiveSizeHasOutput reports whether any background variant exists for
// the size.
func archiveSizeHasOutput(rec index.SizeRecord) bool {
	for _, bg := range rec.Backgrounds {
		if bg.Exists {
			return true
		}
	}
	return false
}

// existingBackgroundKeys normalizes the size's existing background keys so
// historical folder spellings compare equal to the expected set.
func existingBackgroundKeys(rec index.SizeRecord) map[string]struct{} {
	keys := make(map[string]struct{}, len(rec.Backgrounds))
	for raw, bg := range rec.Backgrounds {
		if !bg.Exists {
			continue
		}
		keys[textutil.NormalizeBackgroundName(raw).Key] = struct{}{}
	}
	return keys
}

func expectedBackgrounds() []textutil.PosterName {
	pairs := make([]textutil.PosterName, 0, len(ExpectedBackgroundNames))
	for _, name := range ExpectedBackgroundNames {
		pairs = append(pairs, textutil.NormalizeBackgroundName(name))
	}
	return pairs
}

func displayName(poster index.Poster, folder string) string {
	if name := strings.TrimSpace(poster.DisplayName); name != "" {
		return name
	}
	return folder
}

func sortedFolders(set index.PosterSet) []string {
	folders := make([]string, 0, len(set))
	for folder := range set {
		folders = append(folders, folder)
	}
	sort.Slice(folders, func(i, j int) bool {
		li, lj := strings.ToLower(folders[i]), strings.ToLower(folders[j])
		if li != lj {
			return li < lj
		}
		return folders[i] < folders[j]
	})
	return folders
}
