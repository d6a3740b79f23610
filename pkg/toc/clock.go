package toc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// SectorsPerSecond CD 每秒的扇区数（与 MSF 中的帧相同）
	SectorsPerSecond = 75
	// LeadIn 第一轨之前不可读的导入区长度
	LeadIn = 150
	// LeadoutGap 增强型 CD 中数据会话之前保留的最小间隔，
	// 用于从数据轨起点反推音频部分真正的结束扇区
	LeadoutGap = 11400
	// SamplesPerSector 每扇区的 44.1kHz 采样帧数
	SamplesPerSector = 588
)

// SectorTime 表示 cue 表中的 MM:SS:FF 时间
type SectorTime struct {
	Minutes int
	Seconds int
	Frames  int
}

// ParseSectorTime 解析 MM:SS:FF 格式的时间
func ParseSectorTime(s string) (SectorTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return SectorTime{}, Errorf("parse time", s, "want MM:SS:FF")
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return SectorTime{}, Errorf("parse time", s, "bad field %q", p)
		}
		v[i] = n
	}
	return SectorTime{Minutes: v[0], Seconds: v[1], Frames: v[2]}, nil
}

// Sectors 返回该时间对应的扇区数
func (t SectorTime) Sectors() int {
	return (t.Minutes*60+t.Seconds)*SectorsPerSecond + t.Frames
}

func (t SectorTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Minutes, t.Seconds, t.Frames)
}

// TimeToSectors 将 MM:SS:FF 字符串直接转换为扇区数
func TimeToSectors(s string) (int, error) {
	t, err := ParseSectorTime(s)
	if err != nil {
		return 0, err
	}
	return t.Sectors(), nil
}

// SectorsFromSeconds 将秒数换算为扇区数，.5 时取偶数
func SectorsFromSeconds(seconds float64) int {
	return int(math.RoundToEven(seconds * SectorsPerSecond))
}

// FromSectors 是 Sectors 的逆运算，sectors 须为非负数
func FromSectors(sectors int) SectorTime {
	frames := sectors % SectorsPerSecond
	total := sectors / SectorsPerSecond
	return SectorTime{Minutes: total / 60, Seconds: total % 60, Frames: frames}
}

// FormatSectors 以 MM:SS:FF 形式输出扇区数（取绝对值）
func FormatSectors(sectors int) string {
	if sectors < 0 {
		sectors = -sectors
	}
	return FromSectors(sectors).String()
}
