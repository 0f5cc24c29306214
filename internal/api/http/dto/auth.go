package dto

type LoginRequest struct {
	LoginName   string `json:"login_name"`
	AgentName   string `json:"agent_name"`
	Password    string `json:"agent_pwd"`
	CaptchaCode string `json:"agent_code"`
	CaptchaKey  string `json:"t"`
}

type LoginResponse struct {
	Code int          `json:"code"`
	Msg  string       `json:"msg"`
	Data AgentProfile `json:"data"`
}

// ErrorResponse is the login endpoint's failure body. Reason tells the two
// 401 cases apart.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
