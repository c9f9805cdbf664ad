package main

import (
	"context"
	"fmt"

	"github.com/persistorai/kinnet/client"
	"github.com/persistorai/kinnet/internal/assembler"
	"github.com/persistorai/kinnet/internal/models"
	"github.com/persistorai/kinnet/internal/service"
)

// backend answers CLI queries either in-process or through a kinnet server.
type backend interface {
	BuildNetwork(ctx context.Context, req models.BuildRequest) (*models.Network, error)
	Export(ctx context.Context, g *models.GraphModel, format string) ([]byte, error)
	Person(ctx context.Context, id models.PersonID, locale string) (*client.Person, error)
}

type localBackend struct {
	svc *service.NetworkService
}

func (b localBackend) BuildNetwork(ctx context.Context, req models.BuildRequest) (*models.Network, error) {
	return b.svc.BuildNetwork(ctx, req)
}

func (b localBackend) Export(_ context.Context, g *models.GraphModel, format string) ([]byte, error) {
	return b.svc.ExportGraph(g, format)
}

func (b localBackend) Person(ctx context.Context, id models.PersonID, locale string) (*client.Person, error) {
	p, err := b.svc.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	return &client.Person{PersonAttributes: p, Label: assembler.Label(id, p, locale)}, nil
}

type remoteBackend struct {
	c *client.Client
}

func (b remoteBackend) BuildNetwork(ctx context.Context, req models.BuildRequest) (*models.Network, error) {
	return b.c.Network.Build(ctx, req)
}

func (b remoteBackend) Export(ctx context.Context, g *models.GraphModel, format string) ([]byte, error) {
	return b.c.Network.Export(ctx, g, format)
}

func (b remoteBackend) Person(ctx context.Context, id models.PersonID, locale string) (*client.Person, error) {
	return b.c.Persons.Get(ctx, id, locale)
}

// withBackend runs fn against the server at flagURL, or against a local
// runtime when no URL is set.
func withBackend(ctx context.Context, fn func(backend) error) error {
	if flagURL != "" {
		return fn(remoteBackend{c: client.New(flagURL)})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return fmt.Errorf("local store: %w", err)
	}
	defer rt.close()

	return fn(localBackend{svc: rt.svc})
}
