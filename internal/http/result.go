package httpapi

// Result 除 /api/chatwork-sync 外所有接口的响应信封
// code 2000 成功，-1 一般错误，60401 需要登录
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess      = 2000
	ResultError        = -1
	ResultUnauthorized = 60401 // 职员会话缺失或过期，HTTP 401
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

// Fail 业务错误；HTTP 状态由调用方决定
func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

func Unauthorized(message string) Result[any] {
	return Result[any]{Code: ResultUnauthorized, Type: "error", Message: message, Result: nil}
}
