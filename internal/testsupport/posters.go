package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePoster lays out a complete poster folder under root: a master file, a
// web rendition, and print files for two sizes including one recognized
// background. It returns the poster directory.
func WritePoster(t testing.TB, root, name string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	WriteFile(t, filepath.Join(dir, "MASTER", "master.psd"), "psd")
	WriteFile(t, filepath.Join(dir, "WEB", "preview.jpg"), "jpg")
	WriteFile(t, filepath.Join(dir, "PRINT", "12x18", name+"_AntiqueParchment.tif"), "tif")
	WriteFile(t, filepath.Join(dir, "PRINT", "18x24", name+"_Flat.tif"), "tif")
	return dir
}

// WriteBarePoster creates an empty poster folder with the three size
// directories but no files.
func WriteBarePoster(t testing.TB, root, name string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	for _, size := range []string{"12x18", "18x24", "24x36"} {
		if err := os.MkdirAll(filepath.Join(dir, "PRINT", size), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", size, err)
		}
	}
	return dir
}
