// Errors for RxCore
// 错误类型：生产者错误与哨兵错误
package rxcore

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotObservable MergeAll收到的外层值不是Observable
	ErrNotObservable = errors.New("merge: inner value is not an Observable")

	// ErrSubjectDisposed 订阅已释放的Subject
	ErrSubjectDisposed = errors.New("subject already disposed")
)

// ProducerError 生产者（数据源或操作符中的用户函数）产生的错误
type ProducerError struct {
	Operator string
	Err      error
}

// NewProducerError 创建生产者错误，err会附带调用栈
func NewProducerError(operator string, err error) *ProducerError {
	return &ProducerError{
		Operator: operator,
		Err:      errors.WithStack(err),
	}
}

// newPanicError 将recover得到的值包装为生产者错误
func newPanicError(operator string, recovered interface{}) *ProducerError {
	if err, ok := recovered.(error); ok {
		return NewProducerError(operator, errors.Wrap(err, "panic"))
	}
	return NewProducerError(operator, errors.Errorf("panic: %v", recovered))
}

// Error 实现error接口
func (e *ProducerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operator, e.Err)
}

// Cause 返回根因，兼容 errors.Cause
func (e *ProducerError) Cause() error {
	return errors.Cause(e.Err)
}

// Unwrap 支持 errors.Is / errors.As
func (e *ProducerError) Unwrap() error {
	return e.Err
}

// IsProducerError 检查错误链中是否包含ProducerError
func IsProducerError(err error) bool {
	var pe *ProducerError
	return errors.As(err, &pe)
}
