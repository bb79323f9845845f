package api

// Response is the uniform envelope every endpoint returns:
// {status: "success"|"error", message, data}.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(message string, data any) Response {
	return Response{Status: "success", Message: message, Data: data}
}

func Error(message string) Response {
	return Response{Status: "error", Message: message}
}
