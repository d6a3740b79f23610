package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/mewkiz/flac/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yleoer/cdtoc/pkg/audio/audiotest"
	"github.com/yleoer/cdtoc/pkg/toc"
)

func TestWavDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	audiotest.WriteWav(t, path, 44100/2)

	d, err := Duration(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-9)
}

func TestFlacDurationAndTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disc.flac")
	audiotest.WriteFlac(t, path, 44100*300, map[string]string{
		"cdtoc":  "2+96+17812+37242",
		"TITLE":  "ignored",
		"ARTIST": "ignored",
	})

	d, err := Duration(path)
	require.NoError(t, err)
	assert.Equal(t, 300.0, d)

	info, err := ReadFlac(path)
	require.NoError(t, err)
	assert.Equal(t, "2+96+17812+37242", info.CDTOC)
	assert.Empty(t, info.CueSheet)
	assert.Nil(t, info.Native)
	assert.Equal(t, 300.0, info.Seconds)
}

func TestDurationErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Duration(filepath.Join(dir, "a.ape"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Duration(filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("not a wave file"), 0644))
	_, err = Duration(junk)
	assert.Error(t, err)
}

func TestCueSheetTOC(t *testing.T) {
	cs := &meta.CueSheet{
		IsCompactDisc: true,
		Tracks: []meta.CueSheetTrack{
			{Num: 1, Offset: 0, IsAudio: true, Indicies: []meta.CueSheetTrackIndex{{Num: 1, Offset: 0}}},
			{Num: 2, Offset: 15750 * 588, IsAudio: true, Indicies: []meta.CueSheetTrackIndex{
				{Num: 0, Offset: 0},
				{Num: 1, Offset: 150 * 588},
			}},
			{Num: 3, Offset: 30000 * 588, IsAudio: false, Indicies: []meta.CueSheetTrackIndex{{Num: 1, Offset: 0}}},
			{Num: 170, Offset: 40000 * 588},
		},
	}
	got, err := CueSheetTOC(cs)
	require.NoError(t, err)
	assert.Equal(t, toc.TOC{150, 16050, -30150, 40150}, got)
}

func TestCueSheetTOCErrors(t *testing.T) {
	_, err := CueSheetTOC(nil)
	assert.ErrorIs(t, err, ErrNotCompactDisc)
	_, err = CueSheetTOC(&meta.CueSheet{IsCompactDisc: false})
	assert.ErrorIs(t, err, ErrNotCompactDisc)

	noLeadOut := &meta.CueSheet{IsCompactDisc: true, Tracks: []meta.CueSheetTrack{
		{Num: 1, IsAudio: true, Indicies: []meta.CueSheetTrackIndex{{Num: 1}}},
	}}
	_, err = CueSheetTOC(noLeadOut)
	assert.Error(t, err)

	noIndex := &meta.CueSheet{IsCompactDisc: true, Tracks: []meta.CueSheetTrack{
		{Num: 1, IsAudio: true},
		{Num: 170, Offset: 588 * 100},
	}}
	_, err = CueSheetTOC(noIndex)
	assert.Error(t, err)
}

func TestPrefetch(t *testing.T) {
	var calls atomic.Int32
	fn := func(path string) (float64, error) {
		calls.Add(1)
		return float64(len(path)), nil
	}
	got, err := Prefetch(context.Background(), []string{"a", "bb", "ccc"}, 2, fn)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 1, "bb": 2, "ccc": 3}, got)
	assert.EqualValues(t, 3, calls.Load())

	cached := Cached(got, func(string) (float64, error) { return 42, nil })
	d, err := cached("bb")
	require.NoError(t, err)
	assert.Equal(t, 2.0, d)
	d, err = cached("other")
	require.NoError(t, err)
	assert.Equal(t, 42.0, d)
}

func TestPrefetchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Prefetch(context.Background(), []string{"a", "b"}, 0, func(p string) (float64, error) {
		if p == "b" {
			return 0, boom
		}
		return 1, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	flacPath := filepath.Join(dir, "album.flac")
	require.NoError(t, os.WriteFile(flacPath, nil, 0644))

	assert.Equal(t, flacPath, Locate(flacPath))
	assert.Equal(t, flacPath, Locate(filepath.Join(dir, "album.wav")))
	missing := filepath.Join(dir, "other.wav")
	assert.Equal(t, missing, Locate(missing))
}
