package index_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"studiohub/internal/index"
)

func TestFingerprintStableForUnchangedTree(t *testing.T) {
	root := t.TempDir()
	dir := buildPosterFixture(t, root, "Stable")

	first := index.Fingerprint(dir)
	second := index.Fingerprint(dir)
	if first != second {
		t.Fatalf("fingerprint not stable: %d vs %d", first, second)
	}
	if first == 0 {
		t.Fatal("expected non-zero fingerprint for populated folder")
	}
}

func TestFingerprintIncreasesWhenFilesAppear(t *testing.T) {
	root := t.TempDir()
	dir := buildPosterFixture(t, root, "Growing")

	before := index.Fingerprint(dir)

	newFile := filepath.Join(dir, "PRINT", "24x36", "Growing_Flat.tif")
	writeTestFile(t, newFile)
	future := time.Now().Add(5 * time.Second)
	if err := os.Chtimes(newFile, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	after := index.Fingerprint(dir)
	if after <= before {
		t.Fatalf("fingerprint did not increase after newer file: %d -> %d", before, after)
	}
}

func TestFingerprintDetectsDeletionWithFrozenMtimes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Frozen")
	older := filepath.Join(dir, "a.tif")
	newer := filepath.Join(dir, "b.tif")
	writeTestFile(t, older)
	writeTestFile(t, newer)

	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(dir, base, base); err != nil {
		t.Fatalf("chtimes dir: %v", err)
	}

	before := index.Fingerprint(dir)

	if err := os.Remove(older); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// Pin the directory mtime back so only the count differs.
	if err := os.Chtimes(dir, base, base); err != nil {
		t.Fatalf("chtimes dir: %v", err)
	}

	after := index.Fingerprint(dir)
	if before == after {
		t.Fatal("deletion with unchanged mtimes must still change the fingerprint")
	}
}

func TestFingerprintMissingDirIsZero(t *testing.T) {
	if got := index.Fingerprint(filepath.Join(t.TempDir(), "nope")); got != 0 {
		t.Fatalf("fingerprint of missing dir = %d, want 0", got)
	}
}
