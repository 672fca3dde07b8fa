package mkv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseMuxerConfig(t *testing.T) {
	cfg, err := ParseMuxerConfig([]byte(`
doc_type: webm
lacing: xiph
cluster_duration: 2000
title: holiday
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DocType != "webm" || cfg.Lacing != LaceXiph || cfg.ClusterDuration != 2000 || cfg.Title != "holiday" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.ClusterSize != DefaultClusterSize || cfg.TracksReserve != 4096 || cfg.TimecodeScale != DefaultTimecodeScale {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestMuxerConfigErrors(t *testing.T) {
	values := map[string]error{
		"doc_type: avi":        ErrNotMatroska,
		"lacing: zigzag":       ErrUnsupportedLacing,
		"timecode_scale: 0":    nil,
		"cluster_size: -1":     nil,
		"info_reserve: 1":      nil,
		"cluster_size: [1, 2]": nil,
	}
	for data, want := range values {
		_, err := ParseMuxerConfig([]byte(data))
		if err == nil {
			t.Errorf("%q: expected error", data)
			continue
		}
		if want != nil && !errors.Is(err, want) {
			t.Errorf("%q: expected %v, got %v", data, want, err)
		}
	}
}

func TestMuxerConfigClamp(t *testing.T) {
	cfg, err := ParseMuxerConfig([]byte("cluster_duration: 100000"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ClusterDuration != 32767 {
		t.Errorf("expected %d, got %d", 32767, cfg.ClusterDuration)
	}
}

func TestLoadMuxerConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mkv.yaml")
	if err := os.WriteFile(path, []byte("lacing: fixed\ntags_reserve: 512\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadMuxerConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Lacing != LaceFixed || cfg.TagsReserve != 512 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if _, err = LoadMuxerConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for a missing file")
	}
}

func TestProbe(t *testing.T) {
	values := map[string]bool{
		"\x1a\x45\xdf\xa3\x9f": true,
		"\x1a\x45\xdf":         false,
		"RIFF":                 false,
		"":                     false,
	}
	for data, want := range values {
		if got := Probe([]byte(data)); got != want {
			t.Errorf("%q: expected %v, got %v", data, want, got)
		}
	}
}
