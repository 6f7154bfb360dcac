package response

// AppError 业务错误载体，Code 与响应体的 status_code 一致
type AppError struct {
	Code    int
	Message string // 已本地化的提示文案
	Err     error  // 原始错误，仅进日志不出接口
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 将原始错误包装为带业务码的 AppError
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
