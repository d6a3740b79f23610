package audio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"

	"github.com/yleoer/cdtoc/pkg/toc"
)

// leadOutTrack 是 CD 型 CUESHEET 块中 lead-out 的轨道号
const leadOutTrack = 170

var ErrNotCompactDisc = errors.New("cuesheet block does not describe a compact disc")

// FlacInfo 是从 FLAC 元数据块中读到的与目录相关的信息
type FlacInfo struct {
	Path     string
	CDTOC    string         // Vorbis 注释中的 CDTOC 标签
	CueSheet string         // Vorbis 注释中嵌入的 cue 文本
	Native   *meta.CueSheet // 原生 CUESHEET 元数据块
	Seconds  float64
}

// ReadFlac 解析 FLAC 文件的全部元数据块，不解码音频帧
func ReadFlac(path string) (*FlacInfo, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FLAC metadata of %s: %w", path, err)
	}
	defer stream.Close()

	info := &FlacInfo{Path: path}
	if si := stream.Info; si != nil && si.SampleRate > 0 {
		info.Seconds = float64(si.NSamples) / float64(si.SampleRate)
	}
	for _, block := range stream.Blocks {
		switch body := block.Body.(type) {
		case *meta.VorbisComment:
			for _, tag := range body.Tags {
				switch strings.ToUpper(tag[0]) {
				case "CDTOC":
					if info.CDTOC == "" {
						info.CDTOC = tag[1]
					}
				case "CUESHEET":
					if info.CueSheet == "" {
						info.CueSheet = tag[1]
					}
				}
			}
		case *meta.CueSheet:
			info.Native = body
		}
	}
	return info, nil
}

// flacDuration 只读取 StreamInfo 块得到时长
func flacDuration(path string) (float64, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return 0, err
	}
	defer stream.Close()
	if stream.Info.SampleRate == 0 || stream.Info.NSamples == 0 {
		return 0, fmt.Errorf("%s: stream length unknown", path)
	}
	return float64(stream.Info.NSamples) / float64(stream.Info.SampleRate), nil
}

// CueSheetTOC 将原生 CUESHEET 块转换为规范 TOC。
// 偏移以采样计，每扇区 588 个采样，最后加上 lead-in。
func CueSheetTOC(cs *meta.CueSheet) (toc.TOC, error) {
	if cs == nil || !cs.IsCompactDisc {
		return nil, &toc.FormatError{Op: "flac cuesheet", Err: ErrNotCompactDisc}
	}
	var entries []toc.Entry
	leadOut := -1
	for _, track := range cs.Tracks {
		if track.Num == leadOutTrack {
			leadOut = int(track.Offset/toc.SamplesPerSector) + toc.LeadIn
			continue
		}
		offset, ok := index01(track)
		if !ok {
			return nil, toc.Errorf("flac cuesheet", "", "track %d has no INDEX 01", track.Num)
		}
		kind := toc.Audio
		if !track.IsAudio {
			kind = toc.Data
		}
		entries = append(entries, toc.Entry{
			Sector: int((track.Offset+offset)/toc.SamplesPerSector) + toc.LeadIn,
			Kind:   kind,
		})
	}
	if leadOut < 0 {
		return nil, toc.Errorf("flac cuesheet", "", "no lead-out track")
	}
	entries = append(entries, toc.Entry{Sector: leadOut, Kind: toc.Audio})
	t := toc.FromEntries(entries)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func index01(track meta.CueSheetTrack) (uint64, bool) {
	for _, idx := range track.Indicies {
		if idx.Num == 1 {
			return idx.Offset, true
		}
	}
	return 0, false
}
