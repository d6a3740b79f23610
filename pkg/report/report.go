package report

import (
	"fmt"
	"io"

	"github.com/yleoer/cdtoc/pkg/lookup"
	"github.com/yleoer/cdtoc/pkg/scanner"
	"github.com/yleoer/cdtoc/pkg/toc"
)

// Write 输出一张光盘的 TOC 与查询地址
func Write(w io.Writer, disc *scanner.Disc, links *lookup.Links) error {
	p := &printer{w: w}
	p.printf("Source: %s (%s)\n", disc.Path, disc.Source)
	if disc.Performer != "" || disc.Title != "" {
		p.printf("Disc: %s - %s\n", disc.Performer, disc.Title)
	}
	for i, track := range disc.Tracks {
		if i+1 >= len(disc.TOC) {
			break
		}
		start, end, err := disc.TOC.TrackBounds(i)
		if err != nil {
			return err
		}
		p.printf("  %s %-5s %s %s", track.Number, toc.EntryOf(disc.TOC[i]).Kind, toc.FormatSectors(start), toc.FormatSectors(end-start))
		if track.ISRC != "" {
			p.printf(" ISRC %s", track.ISRC)
		}
		if track.Title != "" {
			p.printf(" %s", track.Title)
		}
		p.printf("\n")
	}
	p.printf("TOC: %s\n", disc.TOC)
	p.printf("MusicBrainz: %s\n", links.MusicBrainz)
	p.printf("CUETools DB: %s\n", links.CTDB)
	p.printf("CUETools DB lookup: %s\n", links.CTDBLookup)
	return p.err
}

// printer 记录第一次写入错误，之后的写入全部跳过
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
