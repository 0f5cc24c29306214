package agents

import (
	"context"
	"errors"
)

var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrLoginNameExists  = errors.New("login name already exists")
	ErrPasswordRequired = errors.New("password is required")
)

// Store persists agents. Implementations assign IDs from their own sequence
// and must report a duplicate login name as ErrLoginNameExists.
type Store interface {
	Create(ctx context.Context, agent *Agent) (int64, error)
	GetByID(ctx context.Context, id int64) (*Agent, error)
	GetByLoginName(ctx context.Context, loginName string) (*Agent, error)
	RecordLogin(ctx context.Context, id int64, rec LoginRecord) (*Agent, error)
	UpdateBalance(ctx context.Context, id int64, balance float64) (float64, error)
}
