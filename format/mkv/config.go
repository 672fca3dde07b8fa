package mkv

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MuxerConfig holds the layout and clustering parameters of a Muxer.
type MuxerConfig struct {
	DocType       string   `yaml:"doc_type"`
	TimecodeScale uint64   `yaml:"timecode_scale"`
	Lacing        LaceMode `yaml:"lacing"`

	ClusterSize     int64 `yaml:"cluster_size"`     // bytes
	ClusterDuration int64 `yaml:"cluster_duration"` // ticks

	SeekHeadReserve int64 `yaml:"seek_head_reserve"`
	InfoReserve     int64 `yaml:"info_reserve"`
	TracksReserve   int64 `yaml:"tracks_reserve"`
	TagsReserve     int64 `yaml:"tags_reserve"`

	Title      string `yaml:"title"`
	MuxingApp  string `yaml:"muxing_app"`
	WritingApp string `yaml:"writing_app"`
}

// DefaultMuxerConfig returns default configuration values
func DefaultMuxerConfig() *MuxerConfig {
	return &MuxerConfig{
		DocType:         "matroska",
		TimecodeScale:   DefaultTimecodeScale,
		Lacing:          LaceEBML,
		ClusterSize:     DefaultClusterSize,
		ClusterDuration: DefaultClusterDuration,
		SeekHeadReserve: 256,
		InfoReserve:     128,
		TracksReserve:   4096,
		TagsReserve:     4096,
		MuxingApp:       "github.com/deepch/mkv",
		WritingApp:      "github.com/deepch/mkv",
	}
}

// ParseMuxerConfig reads yaml on top of the defaults
func ParseMuxerConfig(data []byte) (*MuxerConfig, error) {
	cfg := DefaultMuxerConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("mkv: config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadMuxerConfig loads configuration from yaml file
func LoadMuxerConfig(path string) (*MuxerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mkv: config: %w", err)
	}
	return ParseMuxerConfig(data)
}

// Validate rejects unusable values and clamps the cluster duration to
// what int16 block timecodes can address.
func (c *MuxerConfig) Validate() error {
	if !docTypes[c.DocType] {
		return fmt.Errorf("mkv: config: doc type %q: %w", c.DocType, ErrNotMatroska)
	}
	if c.Lacing > LaceEBML {
		return fmt.Errorf("mkv: config: %w", ErrUnsupportedLacing)
	}
	if c.TimecodeScale == 0 {
		return fmt.Errorf("mkv: config: timecode scale must be positive")
	}
	if c.ClusterSize <= 0 || c.ClusterDuration <= 0 {
		return fmt.Errorf("mkv: config: cluster limits must be positive")
	}
	if c.ClusterDuration > maxClusterSpan {
		c.ClusterDuration = maxClusterSpan
	}
	for _, r := range []int64{c.SeekHeadReserve, c.InfoReserve, c.TracksReserve, c.TagsReserve} {
		if r < 2 {
			return fmt.Errorf("mkv: config: reserved region below 2 bytes")
		}
	}
	return nil
}
