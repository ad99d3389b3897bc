package sale

import "fmt"

const (
	// DefaultMaxPerLine 每行最多购买册数
	DefaultMaxPerLine = 3
	// DefaultMaxPerOrder 每单最多购买册数
	DefaultMaxPerOrder = 3
)

// Limits 限购规则
type Limits struct {
	MaxPerLine  int
	MaxPerOrder int
}

// DefaultLimits 默认限购:每行3本,每单3本
func DefaultLimits() Limits {
	return Limits{
		MaxPerLine:  DefaultMaxPerLine,
		MaxPerOrder: DefaultMaxPerOrder,
	}
}

// Validate 限购配置校验
func (l Limits) Validate() error {
	if l.MaxPerLine <= 0 || l.MaxPerOrder <= 0 {
		return fmt.Errorf("限购配置不合法: max_per_line=%d, max_per_order=%d", l.MaxPerLine, l.MaxPerOrder)
	}
	return nil
}
