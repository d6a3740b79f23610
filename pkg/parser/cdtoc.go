package parser

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/yleoer/cdtoc/pkg/toc"
)

var ErrBadTrackCount = errors.New("bad audio track count")

// parseHexToken 解析 CDTOC 中的一项，"X" 前缀表示数据轨
func parseHexToken(tok string) (int, error) {
	neg := false
	if strings.HasPrefix(tok, "X") || strings.HasPrefix(tok, "x") {
		neg, tok = true, tok[1:]
	}
	if tok == "" {
		return 0, errors.New("empty token")
	}
	n, err := strconv.ParseInt(tok, 16, 64)
	if err != nil || n < 0 {
		return 0, errors.New("not a hex number")
	}
	if neg {
		return -int(n), nil
	}
	return int(n), nil
}

// DecodeCDTOC 解码音频文件中的 CDTOC 标签，如 "2+96+17812+37242"。
// 第一项为音频轨数量，不属于 TOC。
func DecodeCDTOC(tag string) (toc.TOC, error) {
	tag = strings.TrimSpace(tag)
	tokens := strings.Split(tag, "+")
	values := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		v, err := parseHexToken(strings.TrimSpace(tok))
		if err != nil {
			return nil, toc.Errorf("cdtoc", tag, "token %q: %w", tok, err)
		}
		values = append(values, v)
	}
	audioTracks := values[0]
	if audioTracks < 0 {
		return nil, toc.Errorf("cdtoc", tag, "%w", ErrBadTrackCount)
	}
	list := toc.TOC(values[1:])
	if len(list) < 2 {
		return nil, toc.Errorf("cdtoc", tag, "%w", toc.ErrShortTOC)
	}

	negative := 0
	for _, v := range list {
		if v < 0 {
			negative++
		}
	}
	// 最后一个音频轨与 lead-out 之间、尚未带负号的项都是数据轨起点：
	//   [audio=2 t1 t2 end -d1 -d2]  数据轨在内部，已带符号
	//   [audio=2 t1 t2 d end]        数据轨在末尾，需要取负
	for t := audioTracks; t < len(list)-1-negative; t++ {
		list[t] = -list[t]
	}

	sort.SliceStable(list, func(i, j int) bool {
		return abs(list[i]) < abs(list[j])
	})
	return list, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
