package service

import (
	"fmt"
)

// ==================== settleAll 全量结算 ====================

// settleError 单个元素的失败记录
type settleError struct {
	Index int
	Err   error
}

func (e settleError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

// settleAll 对 [0, count) 逐个执行 fn，单个失败绝不中断其余元素，
// 返回全部失败记录。级联取消订单、逐条发放物品都走这里：
// 每个元素的补偿/发放各自独立有效，不能让一个失败拖垮整批
func settleAll(count int, fn func(i int) error) []settleError {
	var failed []settleError
	for i := 0; i < count; i++ {
		if err := fn(i); err != nil {
			failed = append(failed, settleError{Index: i, Err: err})
		}
	}
	return failed
}
