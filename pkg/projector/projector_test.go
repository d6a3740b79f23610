package projector

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yleoer/cdtoc/pkg/parser"
	"github.com/yleoer/cdtoc/pkg/toc"
)

func TestMusicBrainz(t *testing.T) {
	testCases := []struct {
		name string
		toc  toc.TOC
		want string
	}{
		{"audio only", toc.TOC{150, 15900, 22650}, "1 2 22650 150 15900"},
		{"enhanced cd", toc.TOC{150, 17812, -60000, 80000}, "1 2 48600 150 17812"},
		{"leading data track", toc.TOC{-150, 15000, 30000}, "1 2 30000 150 15000"},
		{"interior data track", toc.TOC{150, -4000, 9000, 12000}, "1 3 12000 150 4000 9000"},
		{"data track inside lead-out gap", toc.TOC{150, -5000, 20000}, "1 1 6400 150"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MusicBrainzString(tc.toc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMusicBrainzFromCDTOC(t *testing.T) {
	disc, err := parser.DecodeCDTOC("2+96+17812+37242")
	require.NoError(t, err)
	got, err := MusicBrainz(disc)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0x37242, 0x96, 0x17812}, got)
}

func TestCTDB(t *testing.T) {
	testCases := []struct {
		name string
		toc  toc.TOC
		want string
	}{
		{"audio only", toc.TOC{150, 17812, 37242}, "0:17662:37092"},
		{"data track in lead-in", toc.TOC{-150, 15000, 30000}, "-0:14850:29850"},
		{"enhanced cd", toc.TOC{150, 17812, -60000, 80000}, "0:17662:-59850:79850"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CTDBString(tc.toc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCTDBTOCID(t *testing.T) {
	testCases := []struct {
		name string
		toc  toc.TOC
		want string
	}{
		{"two tracks", toc.TOC{150, 17812, 37242}, "BA5RVZO6l_P6ZVv5bzykGRWo4K4-"},
		{"cue sheet", toc.TOC{150, 15900, 22650}, "8AQ0E5b1HWcbFo1DRY.FlkhxFrk-"},
		{"file per track", toc.TOC{150, 13800, 22800}, "UtN12kRQvAK47tjZghMAdMd03Qc-"},
		{"enhanced cd", toc.TOC{150, 17812, -60000, 80000}, "LZttYt5AkCnv86S8BPMgyAQHCQo-"},
		{"leading data track", toc.TOC{-150, 15000, 30000}, "3jw0IVQ8WaW.63.KRdk6YFsBvyo-"},
		{"hex tag", toc.TOC{150, 96274, 225858}, "CgrKxmsaB4uwmyRcHhnmr51mfHE-"},
		{"trailing data from tag", toc.TOC{150, 16384, -36864, 49152}, "RxRPGctiNl_KncV8ZgFDgrm5KZU-"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CTDBTOCID(tc.toc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Len(t, got, 28)
			assert.False(t, strings.ContainsAny(got, "+/="))
		})
	}
}

func TestCTDBTOCIDDeterministic(t *testing.T) {
	disc := toc.TOC{150, 17812, -60000, 80000}
	first, err := CTDBTOCID(disc)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := CTDBTOCID(append(toc.TOC(nil), disc...))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestProjectionErrors(t *testing.T) {
	bad := []toc.TOC{nil, {150}, {-150, -3000, 9000}}
	for _, disc := range bad {
		_, err := MusicBrainz(disc)
		assertFormatError(t, err)
		_, err = CTDB(disc)
		assertFormatError(t, err)
		_, err = CTDBTOCID(disc)
		assertFormatError(t, err)
	}
}

func TestCTDBTOCIDNeedsAudioTrack(t *testing.T) {
	// 唯一的正数是第一轨，lead-out 为负数
	_, err := CTDBTOCID(toc.TOC{150, -9000})
	assert.ErrorIs(t, err, toc.ErrNoAudioTracks)
}

func assertFormatError(t *testing.T, err error) {
	t.Helper()
	var fe *toc.FormatError
	assert.True(t, errors.As(err, &fe), "want FormatError, got %v", err)
}
