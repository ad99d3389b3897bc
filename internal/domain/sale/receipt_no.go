package sale

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateReceiptNo 生成销售单号
// 格式:SAL + 时间戳(秒) + 6位随机数
// 示例:SAL1699248000123456
func GenerateReceiptNo() string {
	timestamp := time.Now().Unix()
	random := rand.Intn(1000000)
	return fmt.Sprintf("SAL%d%06d", timestamp, random)
}
