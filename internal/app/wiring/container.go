package wiring

import (
	"go.uber.org/zap"

	repoadapters "github.com/tunegen/tunegen/internal/domains/repo/adapters"
	repoapi "github.com/tunegen/tunegen/internal/domains/repo/api"

	tokadapters "github.com/tunegen/tunegen/internal/domains/tokenize/adapters"
	tokports "github.com/tunegen/tunegen/internal/domains/tokenize/ports"

	datasetadapters "github.com/tunegen/tunegen/internal/domains/dataset/adapters"
	datasetapi "github.com/tunegen/tunegen/internal/domains/dataset/api"

	artifactwriter "github.com/tunegen/tunegen/internal/platform/artifact"
	"github.com/tunegen/tunegen/internal/platform/clock"
	"github.com/tunegen/tunegen/internal/platform/policy"
)

// Options are the run-level choices the container needs to build its adapters.
type Options struct {
	Clock     clock.Clock // nil means clock.SystemUTC
	Logger    *zap.Logger
	Policy    policy.Policy
	Tokenizer string
}

// Container is the in-process DI container for one run.
type Container struct {
	Counter tokports.Counter
	Dataset datasetapi.API
}

// New fails only when the tokenizer cannot be built (unknown scheme, or a
// BPE scheme the network policy does not allow).
func New(opts Options) (Container, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemUTC{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Repo domain adapters (OS-backed)
	repo := repoapi.New(repoapi.Dependencies{
		Scanner: repoadapters.NewOSScanner(),
		Reader:  repoadapters.NewOSReader(),
	})

	counter, err := tokadapters.New(opts.Tokenizer, opts.Policy)
	if err != nil {
		return Container{}, err
	}

	// Shared platform artifact writer
	aw := artifactwriter.Writer{Clock: clk}

	ds := datasetapi.New(datasetapi.Dependencies{
		Clock:   clk,
		Logger:  log,
		Repo:    repo,
		Counter: counter,
		Writer:  datasetadapters.NewJSONLWriter(aw),
	})

	return Container{
		Counter: counter,
		Dataset: ds,
	}, nil
}
