// Package loader reads cartridge and boot ROM images from disk,
// transparently decompressing archived dumps.
package loader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// Load reads filename and returns its raw bytes. Plain .gb/.gbc ROMs and
// .bin boot ROMs pass through untouched; .gz/.zip/.7z archives are
// decompressed and the first entry inside is returned.
func Load(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".gb") || strings.HasSuffix(lower, ".gbc") {
		return data, nil
	}
	if strings.HasSuffix(lower, ".bin") && (len(data) == 256 || len(data) == 2304) {
		return data, nil
	}

	switch filepath.Ext(lower) {
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("loader: gzip: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case ".zip":
		return loadFirstFromZip(data)
	case ".7z":
		return loadFirstFrom7z(data)
	default:
		return data, nil
	}
}

func loadFirstFromZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("loader: zip: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("loader: zip archive is empty")
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("loader: zip: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func loadFirstFrom7z(data []byte) ([]byte, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("loader: 7z: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("loader: 7z archive is empty")
	}
	rc, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("loader: 7z: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// SavePath derives the battery-RAM save path for a ROM file: same
// directory and base name, with a .sav extension.
func SavePath(romPath string) string {
	ext := filepath.Ext(romPath)
	return strings.TrimSuffix(romPath, ext) + ".sav"
}
