package sim

import (
	"context"

	"github.com/san-kum/particles/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Member is one independent run of an ensemble. Its world is owned by the
// member's goroutine for the duration of the run. A non-nil Config overrides
// the ensemble-wide one.
type Member struct {
	Name   string
	Sim    *Simulator
	World  *dynamo.World
	Config *dynamo.Config
}

type Ensemble struct {
	members []Member
}

func NewEnsemble() *Ensemble {
	return &Ensemble{}
}

func (e *Ensemble) Add(name string, s *Simulator, w *dynamo.World) {
	e.members = append(e.members, Member{Name: name, Sim: s, World: w})
}

// AddConfigured adds a member that runs with its own configuration.
func (e *Ensemble) AddConfigured(name string, s *Simulator, w *dynamo.World, cfg dynamo.Config) {
	e.members = append(e.members, Member{Name: name, Sim: s, World: w, Config: &cfg})
}

func (e *Ensemble) Members() []Member { return e.members }

// Run executes every member concurrently, one goroutine per world. Results
// are returned in the order members were added.
func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.members))

	g, ctx := errgroup.WithContext(ctx)
	for i := range e.members {
		idx := i
		g.Go(func() error {
			m := e.members[idx]
			c := cfg
			if m.Config != nil {
				c = *m.Config
			}
			res, err := m.Sim.Run(ctx, m.World, c)
			results[idx] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
