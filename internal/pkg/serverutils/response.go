// FILE: internal/pkg/serverutils/response.go
package serverutils

// BaseResponse is the JSON envelope every endpoint answers with. The generic
// form exists so tests can decode the data payload in one step.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}
