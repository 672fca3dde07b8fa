package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/deepch/mkv/format"
	"github.com/deepch/mkv/format/mkv"
	"github.com/deepch/mkv/format/mkv/mkvio"
	"github.com/phsym/console-slog"
)

func main() {
	tree := flag.Bool("tree", false, "print the element tree")
	extract := flag.Uint64("extract", 0, "write the frames of this track to -o")
	out := flag.String("o", "track.bin", "output file for -extract")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{Level: level, TimeFormat: "15:04:05.000"})))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mkvinfo [-tree] [-extract track -o file] file.mkv")
		os.Exit(2)
	}
	f, err := os.Open(flag.Arg(0))
	if err != nil {
		slog.Error("open", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	format.RegisterAll()
	header := make([]byte, 4)
	n, _ := io.ReadFull(f, header)
	if h, ok := format.Detect(f.Name(), header[:n]); !ok {
		slog.Warn("unrecognized file, trying anyway", "file", f.Name())
	} else {
		slog.Debug("detected", "format", h.Name)
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		slog.Error("seek", "error", err)
		os.Exit(1)
	}

	if *tree {
		err = printTree(f)
	} else {
		err = printFrames(f, *extract, *out)
	}
	if err != nil {
		slog.Error("mkvinfo", "file", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func printTree(r io.Reader) error {
	doc := mkvio.InitDocument(r)
	return doc.ParseAll(func(el *mkvio.Element) error {
		indent := strings.Repeat("  ", el.Depth)
		switch el.Type {
		case mkvio.ElementTypeMaster:
			size := fmt.Sprint(el.Size)
			if el.UnknownSize {
				size = "unknown"
			}
			fmt.Printf("%s+ %s (size %s)\n", indent, el.Name, size)
			if el.ID == mkvio.ElementCluster.ID {
				return mkvio.SkipElement
			}
		case mkvio.ElementTypeUint:
			v, _ := el.Uint()
			fmt.Printf("%s%s: %d\n", indent, el.Name, v)
		case mkvio.ElementTypeInt:
			v, _ := el.Int()
			fmt.Printf("%s%s: %d\n", indent, el.Name, v)
		case mkvio.ElementTypeFloat:
			v, _ := el.Float()
			fmt.Printf("%s%s: %g\n", indent, el.Name, v)
		case mkvio.ElementTypeString, mkvio.ElementTypeUnicode:
			v, _ := el.Text()
			fmt.Printf("%s%s: %q\n", indent, el.Name, v)
		case mkvio.ElementTypeDate:
			v, _ := el.Date()
			fmt.Printf("%s%s: %s\n", indent, el.Name, v.Format(time.RFC3339))
		default:
			fmt.Printf("%s%s: %d bytes\n", indent, el.Name, el.Size)
		}
		return nil
	})
}

func printFrames(r io.Reader, track uint64, out string) error {
	d := mkv.NewDemuxer(r)
	if err := d.ReadHeader(); err != nil {
		return err
	}
	fmt.Print(d.Report())

	var w io.Writer
	if track > 0 {
		if d.Track(track) == nil {
			return fmt.Errorf("no track %d", track)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	for {
		var fr *mkv.Frame
		var err error
		if track > 0 {
			fr, err = d.ReadTrackFrame(track)
		} else {
			fr, err = d.ReadFrame()
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if w != nil {
			if _, err = w.Write(fr.Data); err != nil {
				return err
			}
			continue
		}
		slog.Debug("frame", "track", fr.Track, "time", d.Time(fr), "keyframe", fr.Keyframe, "size", len(fr.Data))
	}

	for _, s := range d.Streams() {
		slog.Info("track", "number", s.Number, "codec", s.CodecID, "frames", s.Frames, "keyframes", s.Keyframes, "bytes", s.Bytes)
	}
	return nil
}
