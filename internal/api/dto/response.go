package dto

// ErrorResponse 失败响应，Kind 为稳定的机器可读类别
type ErrorResponse struct {
	Code      int    `json:"code"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}
