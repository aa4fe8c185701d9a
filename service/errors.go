package service

import "errors"

// 领域错误。处理器用 errors.Is 区分错误种类并映射到对应的状态码，
// 这些错误都是当前数据状态的确定性结果，不做重试。
var (
	// ErrInvalidCategory 消费记录引用的类别不存在
	ErrInvalidCategory = errors.New("无效的消费类别")
	// ErrBudgetNotConfigured 总预算单例记录缺失，属于配置错误而非用户错误
	ErrBudgetNotConfigured = errors.New("总预算未配置")
	// ErrCategoryBudgetExceeded 该笔消费会使类别总额超出类别预算
	ErrCategoryBudgetExceeded = errors.New("该笔消费超出类别预算")
	// ErrOverallBudgetExceeded 该笔消费会使全部消费总额超出总预算
	ErrOverallBudgetExceeded = errors.New("该笔消费超出总预算")
	// ErrExpenseNotFound 更新/删除时消费记录不存在
	ErrExpenseNotFound = errors.New("消费记录不存在")
)
