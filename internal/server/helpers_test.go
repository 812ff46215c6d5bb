package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/coachbook/internal/config"
	"github.com/mansoorceksport/coachbook/internal/domain"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupTestDB spins up a fresh MongoDB container and returns the database connection
// along with a cleanup function. Skipped under -short.
func SetupTestDB(t *testing.T) (*mongo.Database, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongodbContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	return mongoClient.Database("coachbook_test"), func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Errorf("failed to disconnect mongo: %v", err)
		}
		if err := mongodbContainer.Terminate(ctx); err != nil {
			log.Errorf("failed to terminate container: %v", err)
		}
	}
}

// testConfig returns the built-in defaults with the given JWT secret.
func testConfig(t *testing.T, jwtSecret string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.JWT.Secret = jwtSecret
	cfg.Redis.IdempotencyTTL = time.Minute
	return cfg
}

// CoachToken signs a token accepted on write routes.
func CoachToken(t *testing.T, secret string) string {
	t.Helper()
	claims := domain.CoachClaims{
		Name:  "Test Coach",
		Roles: []string{domain.RoleCoach},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "coach-e2e",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}
