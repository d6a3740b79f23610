package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yleoer/cdtoc/pkg/toc"
)

func TestDefaultLinks(t *testing.T) {
	b, err := NewBuilder("", "", "")
	require.NoError(t, err)

	links, err := b.All(toc.TOC{150, 15900, 22650})
	require.NoError(t, err)
	assert.Equal(t, "https://musicbrainz.org/bare/cdlookup.html?toc=1+2+22650+150+15900", links.MusicBrainz)
	assert.Equal(t, "http://db.cuetools.net/?tocid=8AQ0E5b1HWcbFo1DRY.FlkhxFrk-", links.CTDB)
	assert.Equal(t, "http://db.cuetools.net/lookup2.php?version=3&ctdb=1&metadata=extensive&fuzzy=1&toc=0:15750:22500", links.CTDBLookup)
}

func TestCustomBase(t *testing.T) {
	b, err := NewBuilder("http://localhost:5000/cdtoc/attach", "https://ctdb.example.org/top.php", "")
	require.NoError(t, err)

	mb, err := b.MusicBrainzURL(toc.TOC{150, 17812, -60000, 80000})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/cdtoc/attach?toc=1+2+48600+150+17812", mb)

	ctdb, err := b.CTDBURL(toc.TOC{150, 17812, 37242})
	require.NoError(t, err)
	assert.Equal(t, "https://ctdb.example.org/top.php?tocid=BA5RVZO6l_P6ZVv5bzykGRWo4K4-", ctdb)
}

func TestInvalidInput(t *testing.T) {
	_, err := NewBuilder("not a url", "", "")
	assert.Error(t, err)
	_, err = NewBuilder("", "://bad", "")
	assert.Error(t, err)

	b, err := NewBuilder("", "", "")
	require.NoError(t, err)
	_, err = b.All(toc.TOC{150})
	assert.ErrorIs(t, err, toc.ErrShortTOC)
}
