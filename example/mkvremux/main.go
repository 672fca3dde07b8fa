package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/deepch/mkv/format/mkv"
	"github.com/phsym/console-slog"
)

func main() {
	config := flag.String("config", "", "yaml muxer config")
	flag.Parse()

	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{Level: slog.LevelInfo, TimeFormat: "15:04:05.000"})))

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: mkvremux [-config file.yaml] in.mkv out.mkv")
		os.Exit(2)
	}
	if err := remux(flag.Arg(0), flag.Arg(1), *config); err != nil {
		slog.Error("remux", "error", err)
		os.Exit(1)
	}
}

func remux(in, out, config string) error {
	cfg := mkv.DefaultMuxerConfig()
	if config != "" {
		var err error
		if cfg, err = mkv.LoadMuxerConfig(config); err != nil {
			return err
		}
	}

	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	d := mkv.NewDemuxer(src)
	if err = d.ReadHeader(); err != nil {
		return err
	}

	var dst io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}

	info := d.Info()
	if cfg.Title == "" {
		cfg.Title = info.Title
	}
	cfg.TimecodeScale = info.TimecodeScale
	m := mkv.NewMuxer(dst, cfg)
	for _, t := range d.Tracks() {
		if err = m.AddTrack(t); err != nil {
			return err
		}
	}
	for _, tag := range d.Tags() {
		if err = m.AddTag(tag); err != nil {
			return err
		}
	}

	var n int
	for {
		fr, err := d.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err = m.WriteFrame(fr); err != nil {
			return err
		}
		n++
	}
	if err = m.Close(); err != nil {
		return err
	}
	slog.Info("remuxed", "frames", n, "tracks", len(m.Tracks()), "seekable", m.Seekable())
	return nil
}
