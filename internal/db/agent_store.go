package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const agentColumns = `id, agent_name, login_name, agentpwd, phone, real_name, level, role,
	recharge_permission, redeem_permission, ragents, is_test, is_authorised, secret_key,
	expires_time, login_times, last_login_time, last_login_ip, last_logon_time, last_logon_ip,
	balance, created_at, updated_at`

const uniqueViolation = "23505"

// AgentStore is the PostgreSQL agents.Store. IDs come from the BIGSERIAL sequence.
type AgentStore struct {
	pool *pgxpool.Pool
}

func NewAgentStore(pool *pgxpool.Pool) *AgentStore {
	return &AgentStore{pool: pool}
}

func (s *AgentStore) Create(ctx context.Context, a *agents.Agent) (int64, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO agents (agent_name, login_name, agentpwd, phone, real_name, level, role,
			recharge_permission, redeem_permission, ragents, is_test, is_authorised, secret_key,
			expires_time, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`,
		a.AgentName, a.LoginName, a.PasswordHash, a.Phone, a.RealName, a.Level, a.Role,
		a.RechargePermission, a.RedeemPermission, a.RAgents, a.IsTest, a.IsAuthorised, a.SecretKey,
		a.ExpiresTime, a.Balance,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, agents.ErrLoginNameExists
		}
		return 0, fmt.Errorf("insert agent: %w", err)
	}
	return a.ID, nil
}

func (s *AgentStore) GetByID(ctx context.Context, id int64) (*agents.Agent, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
	return scanAgent(row)
}

func (s *AgentStore) GetByLoginName(ctx context.Context, loginName string) (*agents.Agent, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE login_name = $1`, loginName)
	return scanAgent(row)
}

// RecordLogin shifts the previous login into last_logon_* in the same
// statement; SET expressions see the pre-update row.
func (s *AgentStore) RecordLogin(ctx context.Context, id int64, rec agents.LoginRecord) (*agents.Agent, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE agents SET
			last_logon_time = last_login_time,
			last_logon_ip = last_login_ip,
			last_login_time = $2,
			last_login_ip = $3,
			login_times = login_times + 1,
			updated_at = $2
		WHERE id = $1
		RETURNING `+agentColumns,
		id, rec.At, rec.IP,
	)
	return scanAgent(row)
}

func (s *AgentStore) UpdateBalance(ctx context.Context, id int64, balance float64) (float64, error) {
	var updated float64
	err := s.pool.QueryRow(ctx,
		`UPDATE agents SET balance = $2, updated_at = now() WHERE id = $1 RETURNING balance`,
		id, balance,
	).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, agents.ErrAgentNotFound
		}
		return 0, fmt.Errorf("update balance: %w", err)
	}
	return updated, nil
}

func scanAgent(row pgx.Row) (*agents.Agent, error) {
	var a agents.Agent
	err := row.Scan(
		&a.ID, &a.AgentName, &a.LoginName, &a.PasswordHash, &a.Phone, &a.RealName, &a.Level, &a.Role,
		&a.RechargePermission, &a.RedeemPermission, &a.RAgents, &a.IsTest, &a.IsAuthorised, &a.SecretKey,
		&a.ExpiresTime, &a.LoginTimes, &a.LastLoginTime, &a.LastLoginIP, &a.LastLogonTime, &a.LastLogonIP,
		&a.Balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, agents.ErrAgentNotFound
		}
		return nil, fmt.Errorf("scan agent: %w", err)
	}
	return &a, nil
}
