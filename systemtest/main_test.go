package systemtest

import (
	"context"
	"testing"

	"github.com/EternisAI/agent-portal/internal/agents"
	internalhttp "github.com/EternisAI/agent-portal/internal/api/http"
	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/EternisAI/agent-portal/internal/captcha"
	"github.com/EternisAI/agent-portal/internal/db"
	"github.com/EternisAI/agent-portal/internal/mongodb"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/EternisAI/agent-portal/systemtest/mongo"
	"github.com/EternisAI/agent-portal/systemtest/postgres"
	"github.com/EternisAI/agent-portal/systemtest/tests"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "systemtest-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSystemIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed system test in short mode")
	}

	t.Run("Postgres", testPostgres)
	t.Run("MongoDB", testMongo)
}

func testPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := postgres.StartPostgres(ctx, "portal", "portal", "portal")
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	require.NoError(t, db.RunMigrations(pg.URL, "portal"))
	// Re-running is a no-op.
	require.NoError(t, db.RunMigrations(pg.URL, "portal"))

	pool, err := db.InitDB(ctx, db.Config{Url: pg.URL, Schema: "portal"})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	agentStore := db.NewAgentStore(pool)
	sessionStore := db.NewSessionStore(pool)

	runScenarios(t, newEnv(agentStore, sessionStore, pool.Ping))
	t.Run("AgentStore", func(t *testing.T) { tests.TestAgentStore(t, agentStore) })
	t.Run("SessionStore", func(t *testing.T) { tests.TestSessionStore(t, sessionStore) })
	t.Run("SessionCleanup", func(t *testing.T) { tests.TestSessionCleanup(t, sessionStore) })
}

func testMongo(t *testing.T) {
	ctx := context.Background()
	mg, err := mongo.StartMongo(ctx)
	if err != nil {
		t.Skipf("mongodb container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = mg.Terminate(ctx) })

	client, err := mongodb.Connect(ctx, mg.URI)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	database := client.Database(mongodb.DefaultDatabase)
	require.NoError(t, mongodb.EnsureIndexes(ctx, database))
	// Index creation is idempotent.
	require.NoError(t, mongodb.EnsureIndexes(ctx, database))

	agentStore := mongodb.NewAgentStore(database)
	sessionStore := mongodb.NewSessionStore(database)
	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }

	runScenarios(t, newEnv(agentStore, sessionStore, ping))
	t.Run("AgentStore", func(t *testing.T) { tests.TestAgentStore(t, agentStore) })
	t.Run("SessionStore", func(t *testing.T) { tests.TestSessionStore(t, sessionStore) })
	t.Run("Sequence", func(t *testing.T) { tests.TestSequence(t, mongodb.NewSequence(database, "systemtest")) })
}

func newEnv(agentStore agents.Store, sessionStore session.Store, ping func(context.Context) error) *tests.Env {
	sessions := session.NewManager(sessionStore, session.Config{})

	engine := gin.New()
	internalhttp.SetupRoute(engine, &internalhttp.Services{
		AgentService: agents.NewService(agentStore),
		AuthService:  auth.NewService(agentStore, auth.Config{Secret: jwtSecret}),
		Sessions:     sessions,
		Captcha:      captcha.NewGenerator(captcha.DefaultOptions()),
		JWTSecret:    jwtSecret,
		Ping:         ping,
	})

	return &tests.Env{
		Router:    engine,
		Sessions:  sessions,
		JWTSecret: jwtSecret,
	}
}

func runScenarios(t *testing.T, env *tests.Env) {
	t.Run("HealthCheck", func(t *testing.T) { tests.TestHealthCheck(t, env) })
	t.Run("Register", func(t *testing.T) { tests.TestRegister(t, env) })
	t.Run("Login", func(t *testing.T) { tests.TestLogin(t, env) })
	t.Run("Balance", func(t *testing.T) { tests.TestBalance(t, env) })
}
