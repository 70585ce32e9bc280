package serverutils

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func CreatedResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Code:    201,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// APIError is an error that already knows its HTTP status.
type APIError struct {
	Status  int
	Message string
	Data    interface{}
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(status int, message string, data interface{}) *APIError {
	return &APIError{Status: status, Message: message, Data: data}
}
