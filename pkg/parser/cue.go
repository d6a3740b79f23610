package parser

import (
	"bufio"
	"errors"
	"io"
	"log"
	"strings"
	"unicode"

	"github.com/yleoer/cdtoc/pkg/converter"
	"github.com/yleoer/cdtoc/pkg/toc"
)

var (
	ErrIndexBeforeTrack = errors.New("INDEX 01 before any TRACK")
	ErrMissingArgument  = errors.New("missing argument")
	ErrNoDurations      = errors.New("no duration provider for FILE")
)

// maxLineLength 是单行 cue 指令的最大字节数
const maxLineLength = 1024 * 1024

// DurationFunc 返回 cue 中 FILE 引用的音频文件的可播放时长（秒）
type DurationFunc func(path string) (float64, error)

// Track 是 cue 表中一轨的信息，除 FileSector 外均仅用于展示
type Track struct {
	Number     string // 按原文保留，不一定是合法数字
	Type       string // AUDIO、MODE1/2352 等，按原文保留
	File       string
	FileSector int // INDEX 01 在所属文件内的扇区偏移
	Title      string
	Performer  string
	ISRC       string
}

// IsAudio 判断是否为音频轨
func (t Track) IsAudio() bool {
	return t.Type == "AUDIO"
}

// CueSheet 是 cue 表的解析结果
type CueSheet struct {
	Title     string
	Performer string
	Files     []string
	Tracks    []Track
	TOC       toc.TOC
}

// CueParser 负责把 cue 表解码为规范 TOC
type CueParser struct {
	converter converter.TextConverter
	logger    *log.Logger
}

// NewCueParser 创建一个新的 CueParser 实例
func NewCueParser(tc converter.TextConverter, logger *log.Logger) *CueParser {
	if tc == nil {
		tc = converter.Nop()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CueParser{converter: tc, logger: logger}
}

// TokenizeLine 按空白切分一行，双引号内的空白保留，引号本身被去掉
func TokenizeLine(line string) []string {
	var words []string
	var word strings.Builder
	quoted := false
	for _, r := range strings.TrimSpace(line) {
		switch {
		case r == '"':
			quoted = !quoted
		case unicode.IsSpace(r) && !quoted:
			if word.Len() > 0 {
				words = append(words, word.String())
			}
			word.Reset()
		default:
			word.WriteRune(r)
		}
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}
	return words
}

// Directives 将 cue 文本切分为指令，空行被跳过。超长的行会导致整体失败。
func Directives(content string) ([][]string, error) {
	var out [][]string
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for sc.Scan() {
		if words := TokenizeLine(sc.Text()); len(words) > 0 {
			out = append(out, words)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, toc.Wrap("cue", "", err)
	}
	return out, nil
}

// FileReferences 按出现顺序返回 cue 中所有 FILE 指令引用的路径（去重）
func FileReferences(content string) ([]string, error) {
	directives, err := Directives(content)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var files []string
	for _, d := range directives {
		if strings.EqualFold(d[0], "FILE") && len(d) > 1 && !seen[d[1]] {
			seen[d[1]] = true
			files = append(files, d[1])
		}
	}
	return files, nil
}

// cueState 是顺序扫描指令时的全部可变状态
type cueState struct {
	durations     DurationFunc
	sectorCounter int
	fileBase      int
	file          string
	haveFile      bool
	track         *Track
	indexed       bool // 当前轨是否已写入 sheet.Tracks
	sheet         *CueSheet
}

// current 返回当前轨；已写入结果的轨道返回结果中的那一项，以便后续元数据同步
func (s *cueState) current() *Track {
	if s.indexed {
		return &s.sheet.Tracks[len(s.sheet.Tracks)-1]
	}
	return s.track
}

// closeFile 把当前文件中最后一个 INDEX 01 之后的剩余音频计入扇区计数
func (s *cueState) closeFile() error {
	if !s.haveFile {
		return nil
	}
	if s.durations == nil {
		return toc.Wrap("duration", s.file, ErrNoDurations)
	}
	seconds, err := s.durations(s.file)
	if err != nil {
		return toc.Wrap("duration", s.file, err)
	}
	s.sectorCounter += toc.SectorsFromSeconds(seconds) - s.fileBase
	return nil
}

// Parse 扫描 cue 文本，得到轨道信息和规范 TOC
func (p *CueParser) Parse(content string, durations DurationFunc) (*CueSheet, error) {
	directives, err := Directives(content)
	if err != nil {
		return nil, err
	}
	return p.Decode(directives, durations)
}

// Decode 对已切分的指令做一次顺序折叠。指令顺序决定扇区累加，不能并行。
func (p *CueParser) Decode(directives [][]string, durations DurationFunc) (*CueSheet, error) {
	s := &cueState{
		durations:     durations,
		sectorCounter: toc.LeadIn,
		sheet:         &CueSheet{},
	}
	for _, d := range directives {
		if err := p.apply(s, d); err != nil {
			return nil, err
		}
	}
	if err := s.closeFile(); err != nil {
		return nil, err
	}
	s.sheet.TOC = append(s.sheet.TOC, s.sectorCounter)
	p.logger.Printf("  -> Decoded %d tracks from cue sheet, lead-out at sector %d", len(s.sheet.Tracks), s.sectorCounter)
	return s.sheet, nil
}

func (p *CueParser) apply(s *cueState, d []string) error {
	keyword := strings.ToUpper(d[0])
	args := d[1:]
	need := func(n int) error {
		if len(args) < n {
			return toc.Errorf("cue", strings.Join(d, " "), "%w", ErrMissingArgument)
		}
		return nil
	}

	switch keyword {
	case "FILE":
		if err := need(1); err != nil {
			return err
		}
		if err := s.closeFile(); err != nil {
			return err
		}
		s.fileBase = 0
		s.file, s.haveFile = args[0], true
		s.sheet.Files = append(s.sheet.Files, args[0])
	case "PREGAP", "POSTGAP":
		if err := need(1); err != nil {
			return err
		}
		n, err := toc.TimeToSectors(args[0])
		if err != nil {
			return err
		}
		s.sectorCounter += n
	case "TRACK":
		if err := need(2); err != nil {
			return err
		}
		s.track = &Track{Number: args[0], Type: args[1], File: s.file}
		s.indexed = false
	case "INDEX":
		if err := need(2); err != nil {
			return err
		}
		// 只有字面上的 "01" 标记轨道起点
		if args[0] != "01" {
			return nil
		}
		if s.track == nil {
			return toc.Errorf("cue", strings.Join(d, " "), "%w", ErrIndexBeforeTrack)
		}
		fileSector, err := toc.TimeToSectors(args[1])
		if err != nil {
			return err
		}
		s.sectorCounter += fileSector - s.fileBase
		s.fileBase = fileSector
		s.track.FileSector = fileSector
		if s.track.IsAudio() {
			s.sheet.TOC = append(s.sheet.TOC, s.sectorCounter)
		} else {
			s.sheet.TOC = append(s.sheet.TOC, -s.sectorCounter)
		}
		s.sheet.Tracks = append(s.sheet.Tracks, *s.track)
		s.indexed = true
	case "ISRC":
		if err := need(1); err != nil {
			return err
		}
		if s.track != nil {
			t := s.current()
			t.ISRC = args[0]
			p.logger.Printf("  -> Track %s ISRC %s", t.Number, t.ISRC)
		}
	case "TITLE", "PERFORMER":
		if len(args) == 0 {
			return nil
		}
		text := p.converter.TradToSim(strings.Join(args, " "))
		switch {
		case s.track == nil && keyword == "TITLE":
			s.sheet.Title = text
		case s.track == nil:
			s.sheet.Performer = text
		case keyword == "TITLE":
			s.current().Title = text
		default:
			s.current().Performer = text
		}
	}
	return nil
}
