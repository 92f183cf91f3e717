package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/tunegen/tunegen/internal/contracts/v1/dataset"
	datasetapp "github.com/tunegen/tunegen/internal/domains/dataset/app"
	datasetports "github.com/tunegen/tunegen/internal/domains/dataset/ports"
	repoapi "github.com/tunegen/tunegen/internal/domains/repo/api"
	tokports "github.com/tunegen/tunegen/internal/domains/tokenize/ports"
	"github.com/tunegen/tunegen/internal/platform/clock"
)

type API interface {
	Generate(ctx context.Context, req datasetapp.GenerateRequest) (dataset.RunReportV1, error)
}

type Dependencies struct {
	Clock   clock.Clock
	Logger  *zap.Logger
	Repo    repoapi.API
	Counter tokports.Counter
	Writer  datasetports.DatasetWriter
}

func New(deps Dependencies) API {
	return &datasetAPI{
		svc: datasetapp.NewService(deps.Repo, deps.Counter, deps.Writer, deps.Clock, deps.Logger),
	}
}

type datasetAPI struct {
	svc *datasetapp.Service
}

func (d *datasetAPI) Generate(ctx context.Context, req datasetapp.GenerateRequest) (dataset.RunReportV1, error) {
	return d.svc.Generate(ctx, req)
}
