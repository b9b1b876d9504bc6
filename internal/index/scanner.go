package index

import (
	"os"
	"path/filepath"
	"strings"
)

var masterExtensions = map[string]struct{}{
	".tif":  {},
	".tiff": {},
	".psd":  {},
	".psb":  {},
}

var webExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

var validPrintExtensions = map[string]struct{}{
	".tif":  {},
	".tiff": {},
}

var ignoredFilenames = map[string]struct{}{
	"desktop.ini": {},
	".ds_store":   {},
	"thumbs.db":   {},
}

// ScanPoster inspects one poster folder and builds its index record.
// The scan is pure: it reads the filesystem and returns data, nothing else.
func ScanPoster(posterDir string) Poster {
	poster := Poster{
		DisplayName: strings.ReplaceAll(filepath.Base(posterDir), "_", " "),
		Exists: Presence{
			Master: hasValidMaster(filepath.Join(posterDir, "MASTER")),
			Web:    hasWebRendition(filepath.Join(posterDir, "WEB")),
		},
		Sizes: make(map[string]SizeRecord, len(PrintSizes)),
	}

	printRoot := filepath.Join(posterDir, "PRINT")
	for _, size := range PrintSizes {
		poster.Sizes[size] = scanSize(filepath.Join(printRoot, size))
	}
	return poster
}

// hasValidMaster reports whether a real master file exists. The directory
// existing on its own is not sufficient, and editor lock files ("~...") do
// not count.
func hasValidMaster(masterDir string) bool {
	entries, err := os.ReadDir(masterDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~") {
			continue
		}
		if _, ok := masterExtensions[strings.ToLower(filepath.Ext(name))]; ok {
			return true
		}
	}
	return false
}

func hasWebRendition(webDir string) bool {
	entries, err := os.ReadDir(webDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := webExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			return true
		}
	}
	return false
}

// scanSize collects valid print files for one size directory and infers
// background variants from their filenames. When variants are recognized the
// record carries them instead of the raw file list.
func scanSize(sizeDir string) SizeRecord {
	record := SizeRecord{
		Files:       []string{},
		Backgrounds: map[string]Background{},
	}

	entries, err := os.ReadDir(sizeDir)
	if err != nil {
		return record
	}

	var valid []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ignored := ignoredFilenames[strings.ToLower(name)]; ignored {
			continue
		}
		if _, ok := validPrintExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		valid = append(valid, filepath.Join(sizeDir, name))
	}

	record.Exists = len(valid) > 0

	for _, path := range valid {
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		switch {
		case strings.Contains(stem, "antiqueparchment"):
			record.Backgrounds["AntiqueParchment"] = backgroundRecord("Antique Parchment", path)
		case strings.Contains(stem, "blueprint"):
			record.Backgrounds["Blueprint"] = backgroundRecord("Blueprint", path)
		case strings.Contains(stem, "chalkboard"):
			record.Backgrounds["Chalkboard"] = backgroundRecord("Chalkboard", path)
		}
	}

	if len(record.Backgrounds) == 0 {
		record.Files = valid
	}
	return record
}

func backgroundRecord(label, path string) Background {
	bg := Background{
		Exists: true,
		Label:  label,
		Path:   path,
	}
	if info, err := os.Stat(path); err == nil {
		bg.Mtime = info.ModTime().Unix()
	}
	return bg
}
