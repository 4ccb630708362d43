package vcf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func readAllRecords(t *testing.T, path string) int {
	t.Helper()
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", filepath.Base(path), err)
	}
	defer r.Close()

	if r.Header().FileFormat != "VCFv4.2" {
		t.Errorf("FileFormat = %q, want VCFv4.2", r.Header().FileFormat)
	}
	count := 0
	for {
		_, err := r.Read()
		if err != nil {
			break
		}
		count++
	}
	return count
}

func TestOpenCompressed(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "test.vcf")
	if err := os.WriteFile(plain, []byte(testVCF), 0o644); err != nil {
		t.Fatal(err)
	}

	gz := filepath.Join(dir, "test.vcf.gz")
	f, err := os.Create(gz)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(testVCF)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	zst := filepath.Join(dir, "test.vcf.zst")
	f, err = os.Create(zst)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write([]byte(testVCF)); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, gz, zst} {
		if got := readAllRecords(t, path); got != 3 {
			t.Errorf("%s: read %d records, want 3", filepath.Base(path), got)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.vcf")); err == nil {
		t.Fatal("Open of a missing file did not error")
	}
}
