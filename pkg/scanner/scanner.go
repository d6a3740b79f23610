package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/yleoer/cdtoc/pkg/audio"
	"github.com/yleoer/cdtoc/pkg/parser"
	"github.com/yleoer/cdtoc/pkg/toc"
	"github.com/yleoer/cdtoc/pkg/util"
)

var ErrNoContentTable = errors.New("found no usable content table")

// Source 表示 TOC 的来源
type Source string

const (
	SourceCueFile   Source = "cue sheet"
	SourceCDTOC     Source = "CDTOC tag"
	SourceCueTag    Source = "CUESHEET tag"
	SourceFlacBlock Source = "FLAC cuesheet block"
)

// Disc 是一次扫描的结果
type Disc struct {
	Path      string
	Source    Source
	Encoding  string // 仅 cue 文件有效
	Title     string
	Performer string
	Tracks    []parser.Track
	TOC       toc.TOC
}

// DiscScanner 负责识别输入文件的格式，选择对应的解码器得到 TOC
type DiscScanner struct {
	cueParser *parser.CueParser
	durations audio.DurationFunc
	workers   int
	logger    *log.Logger
}

// NewDiscScanner 创建一个新的 DiscScanner 实例
func NewDiscScanner(cp *parser.CueParser, durations audio.DurationFunc, workers int, logger *log.Logger) *DiscScanner {
	if durations == nil {
		durations = audio.Duration
	}
	return &DiscScanner{
		cueParser: cp,
		durations: durations,
		workers:   workers,
		logger:    logger,
	}
}

// Scan 读取 cue 表或带标签的 FLAC 文件并解码出 TOC
func (s *DiscScanner) Scan(ctx context.Context, path string) (*Disc, error) {
	if util.IsCueFile(path) {
		return s.scanCueFile(ctx, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return s.scanFlac(ctx, path)
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoContentTable)
	}
}

func (s *DiscScanner) scanCueFile(ctx context.Context, path string) (*Disc, error) {
	content, encoding, err := util.ReadTextFileContent(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CUE file with encoding detection: %w", err)
	}
	s.logger.Printf("  -> Detected %s encoding for %s", encoding, filepath.Base(path))

	sheet, err := s.decodeCue(ctx, content, filepath.Dir(path), nil)
	if err != nil {
		return nil, err
	}
	disc := discFromSheet(path, SourceCueFile, sheet)
	disc.Encoding = encoding
	return disc, nil
}

func (s *DiscScanner) scanFlac(ctx context.Context, path string) (*Disc, error) {
	info, err := audio.ReadFlac(path)
	if err != nil {
		return nil, err
	}
	switch {
	case info.CDTOC != "":
		s.logger.Printf("  -> CDTOC: %s", info.CDTOC)
		t, err := parser.DecodeCDTOC(info.CDTOC)
		if err != nil {
			return nil, err
		}
		return &Disc{Path: path, Source: SourceCDTOC, TOC: t}, nil
	case info.CueSheet != "":
		// 内嵌 cue 通常只引用一个文件，即 FLAC 本身，名字却未必一致
		refs, err := parser.FileReferences(info.CueSheet)
		if err != nil {
			return nil, err
		}
		var known map[string]float64
		if len(refs) == 1 && info.Seconds > 0 {
			known = map[string]float64{refs[0]: info.Seconds}
		}
		sheet, err := s.decodeCue(ctx, info.CueSheet, filepath.Dir(path), known)
		if err != nil {
			return nil, err
		}
		return discFromSheet(path, SourceCueTag, sheet), nil
	case info.Native != nil:
		t, err := audio.CueSheetTOC(info.Native)
		if err != nil {
			return nil, err
		}
		return &Disc{Path: path, Source: SourceFlacBlock, TOC: t}, nil
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoContentTable)
	}
}

// decodeCue 先并发预取所有被引用文件的时长，再顺序解码指令
func (s *DiscScanner) decodeCue(ctx context.Context, content, baseDir string, known map[string]float64) (*parser.CueSheet, error) {
	resolve := func(ref string) (float64, error) {
		return s.durations(audio.Locate(util.ResolvePath(baseDir, ref)))
	}

	refs, err := parser.FileReferences(content)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, ref := range refs {
		if _, ok := known[ref]; !ok {
			pending = append(pending, ref)
		}
	}
	fetched, err := audio.Prefetch(ctx, pending, s.workers, resolve)
	if err != nil {
		return nil, toc.Wrap("duration", "", err)
	}
	for ref, d := range known {
		fetched[ref] = d
	}
	return s.cueParser.Parse(content, parser.DurationFunc(audio.Cached(fetched, resolve)))
}

func discFromSheet(path string, source Source, sheet *parser.CueSheet) *Disc {
	return &Disc{
		Path:      path,
		Source:    source,
		Title:     sheet.Title,
		Performer: sheet.Performer,
		Tracks:    sheet.Tracks,
		TOC:       sheet.TOC,
	}
}
