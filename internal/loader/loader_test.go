package loader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlainROMPassesThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.gb")
	want := []byte{0x00, 0xC3, 0x50, 0x01}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLoadGzipROM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.gz")
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLoadZipROM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.zip")
	want := []byte{0x01, 0x02, 0x03}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("game.gb")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSavePathReplacesExtension(t *testing.T) {
	got := SavePath("/roms/tetris.gb")
	if got != "/roms/tetris.sav" {
		t.Fatalf("got %q want %q", got, "/roms/tetris.sav")
	}
}

func TestLoadBootROMBinPassesThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dmg_boot.bin")
	want := make([]byte, 256)
	for i := range want {
		want[i] = byte(i)
	}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("boot rom bytes did not round-trip")
	}
}
