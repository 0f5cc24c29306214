package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Phone accepts either a JSON number or a JSON string.
type Phone string

func (p *Phone) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Phone(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("phone must be a number or string: %w", err)
	}
	*p = Phone(n.String())
	return nil
}

type RegisterRequest struct {
	LoginName string  `json:"login_name" binding:"required"`
	Password  string  `json:"agentpwd" binding:"required"`
	AgentName string  `json:"agent_name"`
	Phone     Phone   `json:"phone"`
	RealName  string  `json:"real_name"`
	Level     int     `json:"level"`
	Balance   float64 `json:"balance"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// AgentProfile is the profile snapshot returned on login.
type AgentProfile struct {
	AgentID            int64      `json:"agent_id"`
	AgentName          string     `json:"agent_name"`
	LoginName          string     `json:"login_name"`
	Phone              *string    `json:"phone"`
	RealName           string     `json:"real_name"`
	RoleLevel          int        `json:"role_level"`
	LastLoginTime      *time.Time `json:"last_login_time"`
	LastLogonTime      *time.Time `json:"last_logon_time"`
	LastLoginIP        string     `json:"last_login_ip"`
	LastLogonIP        string     `json:"last_logon_ip"`
	LoginTimes         int        `json:"login_times"`
	RechargePermission int        `json:"recharge_permission"`
	RedeemPermission   int        `json:"redeem_permission"`
	RAgents            int        `json:"ragents"`
	IsTest             int        `json:"is_test"`
	IsAuthorised       int        `json:"is_authorised"`
	SecretKey          string     `json:"secret_key"`
	ExpiresTime        *time.Time `json:"expires_time"`
	Token              string     `json:"token"`
	Role               string     `json:"role"`
}
