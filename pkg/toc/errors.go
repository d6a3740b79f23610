package toc

import (
	"errors"
	"fmt"
)

var (
	ErrShortTOC      = errors.New("toc needs at least one track and a lead-out")
	ErrNoAudioTracks = errors.New("no audio tracks on disc")
	ErrTrackRange    = errors.New("track index out of range")
)

// FormatError 是解码与投影过程中唯一的错误类型
type FormatError struct {
	Op    string // 出错的操作，例如 "parse time"、"cdtoc"
	Input string // 引起错误的原始输入，可为空
	Err   error
}

func (e *FormatError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Input, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Errorf 构造一个 FormatError，err 为 fmt.Errorf 风格的原因
func Errorf(op, input, format string, args ...any) *FormatError {
	return &FormatError{Op: op, Input: input, Err: fmt.Errorf(format, args...)}
}

// Wrap 将 err 包装成 FormatError，若 err 已是 FormatError 则原样返回
func Wrap(op, input string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	return &FormatError{Op: op, Input: input, Err: err}
}
