package scanner

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/yleoer/cdtoc/pkg/audio/audiotest"
	"github.com/yleoer/cdtoc/pkg/parser"
	"github.com/yleoer/cdtoc/pkg/toc"
)

const twoTrackCue = `TITLE "Demo"
FILE "a.wav" WAVE
  TRACK 01 AUDIO
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    ISRC GBAAA0000002
    INDEX 01 00:01:00
`

func newTestScanner(t *testing.T) (*DiscScanner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(&buf, "[test] ", 0)
	return NewDiscScanner(parser.NewCueParser(nil, logger), nil, 2, logger), &buf
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestScanCueFile(t *testing.T) {
	dir := t.TempDir()
	audiotest.WriteWav(t, filepath.Join(dir, "a.wav"), 44100*2)
	cuePath := filepath.Join(dir, "Demo.cue")
	writeFile(t, cuePath, []byte(twoTrackCue))

	s, logs := newTestScanner(t)
	disc, err := s.Scan(context.Background(), cuePath)
	require.NoError(t, err)
	assert.Equal(t, SourceCueFile, disc.Source)
	assert.Equal(t, "utf-8", disc.Encoding)
	assert.Equal(t, "Demo", disc.Title)
	assert.Equal(t, toc.TOC{150, 225, 300}, disc.TOC)
	require.Len(t, disc.Tracks, 2)
	assert.Equal(t, "GBAAA0000002", disc.Tracks[1].ISRC)
	assert.Contains(t, logs.String(), "Detected utf-8 encoding")
}

func TestScanCueFindsCompressedAudio(t *testing.T) {
	dir := t.TempDir()
	audiotest.WriteFlac(t, filepath.Join(dir, "a.flac"), 44100*4, nil)
	cuePath := filepath.Join(dir, "Demo.cue")
	writeFile(t, cuePath, []byte(twoTrackCue))

	s, _ := newTestScanner(t)
	disc, err := s.Scan(context.Background(), cuePath)
	require.NoError(t, err)
	assert.Equal(t, toc.TOC{150, 225, 450}, disc.TOC)
}

func TestScanGBKCue(t *testing.T) {
	dir := t.TempDir()
	audiotest.WriteWav(t, filepath.Join(dir, "a.wav"), 44100)
	text, err := simplifiedchinese.GBK.NewEncoder().String("PERFORMER \"刘德华\"\nFILE \"a.wav\" WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n")
	require.NoError(t, err)
	cuePath := filepath.Join(dir, "disc.cue")
	writeFile(t, cuePath, []byte(text))

	s, _ := newTestScanner(t)
	disc, err := s.Scan(context.Background(), cuePath)
	require.NoError(t, err)
	assert.Equal(t, "gbk", disc.Encoding)
	assert.Equal(t, "刘德华", disc.Performer)
	assert.Equal(t, toc.TOC{150, 225}, disc.TOC)
}

func TestScanFlacCDTOC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rip.flac")
	audiotest.WriteFlac(t, path, 44100, map[string]string{"CDTOC": "2+96+4000+9000+C000"})

	s, logs := newTestScanner(t)
	disc, err := s.Scan(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, SourceCDTOC, disc.Source)
	assert.Equal(t, toc.TOC{150, 0x4000, -0x9000, 0xC000}, disc.TOC)
	assert.Contains(t, logs.String(), "CDTOC: 2+96+4000+9000+C000")
}

func TestScanFlacCueSheetTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.flac")
	cue := "FILE \"original name.wav\" WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nTRACK 02 AUDIO\nINDEX 01 00:05:00\n"
	audiotest.WriteFlac(t, path, 44100*10, map[string]string{"CUESHEET": cue})

	s, _ := newTestScanner(t)
	disc, err := s.Scan(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, SourceCueTag, disc.Source)
	assert.Equal(t, toc.TOC{150, 525, 900}, disc.TOC)
}

func TestScanNoContentTable(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.flac")
	audiotest.WriteFlac(t, plain, 44100, map[string]string{"TITLE": "x"})

	s, _ := newTestScanner(t)
	_, err := s.Scan(context.Background(), plain)
	assert.ErrorIs(t, err, ErrNoContentTable)

	_, err = s.Scan(context.Background(), filepath.Join(dir, "song.mp3"))
	assert.ErrorIs(t, err, ErrNoContentTable)
}

func TestScanMissingAudio(t *testing.T) {
	dir := t.TempDir()
	cuePath := filepath.Join(dir, "Demo.cue")
	writeFile(t, cuePath, []byte(twoTrackCue))

	s, _ := newTestScanner(t)
	disc, err := s.Scan(context.Background(), cuePath)
	assert.Nil(t, disc)
	var fe *toc.FormatError
	assert.True(t, errors.As(err, &fe), "got %v", err)
}

func TestScanUsesInjectedDurations(t *testing.T) {
	dir := t.TempDir()
	cuePath := filepath.Join(dir, "Demo.cue")
	writeFile(t, cuePath, []byte(twoTrackCue))

	var seen []string
	fake := func(path string) (float64, error) {
		seen = append(seen, path)
		return 300, nil
	}
	s := NewDiscScanner(parser.NewCueParser(nil, nil), fake, 1, log.New(&bytes.Buffer{}, "", 0))
	disc, err := s.Scan(context.Background(), cuePath)
	require.NoError(t, err)
	assert.Equal(t, toc.TOC{150, 225, 22650}, disc.TOC)
	assert.Equal(t, []string{filepath.Join(dir, "a.wav")}, seen)
}
