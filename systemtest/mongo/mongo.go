package mongo

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

type Instance struct {
	Container *mongodb.MongoDBContainer
	URI       string
}

func StartMongo(ctx context.Context) (*Instance, error) {
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &Instance{Container: container, URI: uri}, nil
}

func (i *Instance) Terminate(ctx context.Context) error {
	if err := i.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate MongoDB container: %w", err)
	}
	return nil
}
