package agents

import (
	"time"
)

type Agent struct {
	ID                 int64      `bson:"_id" json:"agent_id"`
	AgentName          string     `bson:"agent_name" json:"agent_name"`
	LoginName          string     `bson:"login_name" json:"login_name"`
	PasswordHash       string     `bson:"agentpwd" json:"-"`
	Phone              string     `bson:"phone,omitempty" json:"phone,omitempty"`
	RealName           string     `bson:"real_name" json:"real_name"`
	Level              int        `bson:"level" json:"level"`
	Role               string     `bson:"role" json:"role"`
	RechargePermission int        `bson:"recharge_permission" json:"recharge_permission"`
	RedeemPermission   int        `bson:"redeem_permission" json:"redeem_permission"`
	RAgents            int        `bson:"ragents" json:"ragents"`
	IsTest             int        `bson:"is_test" json:"is_test"`
	IsAuthorised       int        `bson:"is_authorised" json:"is_authorised"`
	SecretKey          string     `bson:"secret_key" json:"secret_key"`
	ExpiresTime        *time.Time `bson:"expires_time,omitempty" json:"expires_time"`
	LoginTimes         int        `bson:"login_times" json:"login_times"`
	LastLoginTime      *time.Time `bson:"last_login_time,omitempty" json:"last_login_time"`
	LastLoginIP        string     `bson:"last_login_ip,omitempty" json:"last_login_ip"`
	LastLogonTime      *time.Time `bson:"last_logon_time,omitempty" json:"last_logon_time"`
	LastLogonIP        string     `bson:"last_logon_ip,omitempty" json:"last_logon_ip"`
	Balance            float64    `bson:"balance" json:"balance"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
}

// LoginRecord is applied to an agent after a successful password check.
// The previous login moves into the LastLogon fields.
type LoginRecord struct {
	At time.Time
	IP string
}

// ApplyLogin mutates a in place the same way every Store.RecordLogin does.
func (a *Agent) ApplyLogin(rec LoginRecord) {
	a.LastLogonTime = a.LastLoginTime
	a.LastLogonIP = a.LastLoginIP
	at := rec.At
	a.LastLoginTime = &at
	a.LastLoginIP = rec.IP
	a.LoginTimes++
	a.UpdatedAt = rec.At
}

const DefaultRole = "agent"
