package lookup

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yleoer/cdtoc/pkg/projector"
	"github.com/yleoer/cdtoc/pkg/toc"
)

const (
	DefaultMusicBrainzURL = "https://musicbrainz.org/bare/cdlookup.html"
	DefaultCTDBURL        = "http://db.cuetools.net/"
	DefaultCTDBLookupURL  = "http://db.cuetools.net/lookup2.php"
)

// Links 是一张光盘的全部查询地址
type Links struct {
	MusicBrainz string
	CTDB        string
	CTDBLookup  string
}

// Builder 根据 TOC 拼装光盘数据库的查询地址，不发起任何请求
type Builder struct {
	musicBrainz *url.URL
	ctdb        *url.URL
	ctdbLookup  *url.URL
}

// NewBuilder 创建一个新的 Builder 实例，空字符串使用默认地址
func NewBuilder(musicBrainz, ctdb, ctdbLookup string) (*Builder, error) {
	parse := func(raw, def string) (*url.URL, error) {
		if raw == "" {
			raw = def
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup url %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid lookup url %q: need scheme and host", raw)
		}
		return u, nil
	}
	b := &Builder{}
	var err error
	if b.musicBrainz, err = parse(musicBrainz, DefaultMusicBrainzURL); err != nil {
		return nil, err
	}
	if b.ctdb, err = parse(ctdb, DefaultCTDBURL); err != nil {
		return nil, err
	}
	if b.ctdbLookup, err = parse(ctdbLookup, DefaultCTDBLookupURL); err != nil {
		return nil, err
	}
	return b, nil
}

func withQuery(base *url.URL, query string) string {
	u := *base
	u.RawQuery = query
	return u.String()
}

// MusicBrainzURL 返回 cdlookup 地址，各项以 '+' 连接
func (b *Builder) MusicBrainzURL(t toc.TOC) (string, error) {
	values, err := projector.MusicBrainzString(t)
	if err != nil {
		return "", err
	}
	return withQuery(b.musicBrainz, "toc="+strings.ReplaceAll(values, " ", "+")), nil
}

// CTDBURL 返回按 TOC ID 浏览的地址
func (b *Builder) CTDBURL(t toc.TOC) (string, error) {
	id, err := projector.CTDBTOCID(t)
	if err != nil {
		return "", err
	}
	return withQuery(b.ctdb, "tocid="+url.QueryEscape(id)), nil
}

// CTDBLookupURL 返回模糊查询接口地址，参数顺序与官方客户端一致
func (b *Builder) CTDBLookupURL(t toc.TOC) (string, error) {
	values, err := projector.CTDBString(t)
	if err != nil {
		return "", err
	}
	return withQuery(b.ctdbLookup, "version=3&ctdb=1&metadata=extensive&fuzzy=1&toc="+values), nil
}

// All 一次生成三个地址
func (b *Builder) All(t toc.TOC) (*Links, error) {
	mb, err := b.MusicBrainzURL(t)
	if err != nil {
		return nil, err
	}
	ctdb, err := b.CTDBURL(t)
	if err != nil {
		return nil, err
	}
	lookup, err := b.CTDBLookupURL(t)
	if err != nil {
		return nil, err
	}
	return &Links{MusicBrainz: mb, CTDB: ctdb, CTDBLookup: lookup}, nil
}
