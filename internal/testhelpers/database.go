package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

// requireDocker skips container-based tests on hosts without docker.
func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
}

// startContainer runs image, waits for it and registers termination.
func startContainer(t *testing.T, image, port string, waitFor wait.Strategy) string {
	t.Helper()
	requireDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port},
			WaitingFor:   waitFor,
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start %s container: %v", image, err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, mappedPort.Port())
}

// StartMongo runs a disposable MongoDB and returns its connection string.
func StartMongo(t *testing.T) string {
	t.Helper()
	addr := startContainer(t, "mongo:7", "27017/tcp", wait.ForAll(
		wait.ForListeningPort("27017/tcp"),
		wait.ForLog("Waiting for connections"),
	).WithStartupTimeout(90*time.Second))
	return "mongodb://" + addr + "/"
}

// StartRedis runs a disposable Redis and returns its address.
func StartRedis(t *testing.T) string {
	t.Helper()
	return startContainer(t, "redis:7-alpine", "6379/tcp", wait.ForAll(
		wait.ForListeningPort("6379/tcp"),
		wait.ForLog("Ready to accept connections"),
	).WithStartupTimeout(60*time.Second))
}

// SeedCollection connects to uri and inserts docs into a fresh collection.
func SeedCollection(t *testing.T, uri string, docs []model.Document) *mongo.Collection {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to mongodb: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	coll := client.Database("Cooking").Collection("Recipes")
	if err := coll.Drop(ctx); err != nil {
		t.Fatalf("failed to reset collection: %v", err)
	}
	if len(docs) == 0 {
		return coll
	}

	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = map[string]any(d)
	}
	if _, err := coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(true)); err != nil {
		t.Fatalf("failed to seed recipes: %v", err)
	}
	return coll
}
