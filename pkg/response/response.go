package response

// Envelope is the standard API response shape: {"success": true, "result": ...}
// on success and {"success": false, "error": "..."} on failure. The field
// names are a compatibility surface consumed by the dashboard frontend.
type Envelope struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK wraps the result of a successful request.
func OK(result interface{}) Envelope {
	return Envelope{
		Success: true,
		Result:  result,
	}
}

// Fail wraps an error message for a failed request.
func Fail(err string) Envelope {
	return Envelope{
		Success: false,
		Error:   err,
	}
}
