package index

// CacheVersion is the poster index format this build reads and writes.
const CacheVersion = 2

// Canonical poster sources.
const (
	SourceArchive = "archive"
	SourceStudio  = "studio"
)

// Print sizes tracked per poster. Every poster record carries an entry for
// each, present or not.
var PrintSizes = []string{"12x18", "18x24", "24x36"}

// Index is the cached poster index persisted as poster_index.json.
type Index struct {
	CacheVersion int                  `json:"cache_version"`
	GeneratedAt  string               `json:"generated_at,omitempty"`
	Posters      map[string]PosterSet `json:"posters"`
}

// PosterSet maps poster folder names to their records for one source.
type PosterSet map[string]Poster

// Poster describes one poster folder on disk.
type Poster struct {
	DisplayName string                `json:"display_name"`
	Exists      Presence              `json:"exists"`
	Sizes       map[string]SizeRecord `json:"sizes"`
	Mtime       int64                 `json:"mtime,omitempty"`
}

// Presence reports whether the master and web renditions exist.
type Presence struct {
	Master bool `json:"master"`
	Web    bool `json:"web"`
}

// SizeRecord describes the print output for one size. When background
// variants are inferred from filenames they land in Backgrounds and Files
// stays empty; otherwise Files lists the print-ready paths.
type SizeRecord struct {
	Exists      bool                  `json:"exists"`
	Files       []string              `json:"files"`
	Backgrounds map[string]Background `json:"backgrounds"`
}

// Background is one inferred background variant of a print size.
type Background struct {
	Exists bool   `json:"exists"`
	Label  string `json:"label"`
	Path   string `json:"path"`
	Mtime  int64  `json:"mtime"`
}

// NewIndex returns an empty index at the current cache version.
func NewIndex() *Index {
	return &Index{
		CacheVersion: CacheVersion,
		Posters: map[string]PosterSet{
			SourceArchive: {},
			SourceStudio:  {},
		},
	}
}

// Source returns the poster set for a canonical source, never nil.
func (idx *Index) Source(source string) PosterSet {
	if idx == nil || idx.Posters == nil {
		return PosterSet{}
	}
	set, ok := idx.Posters[source]
	if !ok || set == nil {
		return PosterSet{}
	}
	return set
}

// Counts returns the number of posters per canonical source.
func (idx *Index) Counts() (archive, studio int) {
	return len(idx.Source(SourceArchive)), len(idx.Source(SourceStudio))
}
