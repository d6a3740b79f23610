package converter

// TextConverter 定义文本转换器接口，用于 cue 中标题和艺术家的显示
type TextConverter interface {
	TradToSim(text string) string // 将繁体中文转换为简体
}

type nopConverter struct{}

func (nopConverter) TradToSim(text string) string { return text }

// Nop 返回原样输出的转换器
func Nop() TextConverter {
	return nopConverter{}
}
