package audit

import "context"

// ObservationRequest asks a provider to answer a prompt about the site
// under audit, so the response can be compared against the simulation.
type ObservationRequest struct {
	Provider string
	Model    string
	Prompt   string
}

// ObservationResponse is a provider's answer plus its cost estimate.
type ObservationResponse struct {
	Provider      string
	Model         string
	Text          string
	CostEstimateUSD float64
	Mentioned     bool
	Cited         bool
}

// Observer is the optional collaborator that supplies ground truth for
// the calibration loop by actually querying an AI system. Scoring of a
// Run never depends on Observer succeeding; it only feeds calibration.
type Observer interface {
	QueryAI(ctx context.Context, requests []ObservationRequest) ([]ObservationResponse, error)
}

// NullObserver always reports no observation. It is the default when no
// live provider is configured, keeping a Run's core contract independent
// of any third-party LLM availability.
type NullObserver struct{}

// QueryAI returns an empty response set and no error.
func (NullObserver) QueryAI(ctx context.Context, requests []ObservationRequest) ([]ObservationResponse, error) {
	return nil, nil
}

var _ Observer = NullObserver{}

// RouterObserver fans a request set out to named provider Observers,
// grouping by ObservationRequest.Provider. Unconfigured providers are
// skipped rather than erroring, so a partial provider set still returns
// whatever observations it can.
type RouterObserver struct {
	Providers map[string]Observer
}

// NewRouterObserver builds a RouterObserver over the given provider map.
func NewRouterObserver(providers map[string]Observer) *RouterObserver {
	return &RouterObserver{Providers: providers}
}

// QueryAI groups requests by provider and dispatches each group to its
// registered Observer, concatenating the groups' results in the order each
// provider first appears in requests. A provider whose Observer returns an
// error contributes no results.
func (r *RouterObserver) QueryAI(ctx context.Context, requests []ObservationRequest) ([]ObservationResponse, error) {
	byProvider := make(map[string][]ObservationRequest)
	order := make([]string, 0, len(r.Providers))
	seen := make(map[string]bool)
	for _, req := range requests {
		byProvider[req.Provider] = append(byProvider[req.Provider], req)
		if !seen[req.Provider] {
			seen[req.Provider] = true
			order = append(order, req.Provider)
		}
	}

	var all []ObservationResponse
	for _, provider := range order {
		impl, ok := r.Providers[provider]
		if !ok {
			continue
		}
		resps, err := impl.QueryAI(ctx, byProvider[provider])
		if err != nil {
			continue
		}
		all = append(all, resps...)
	}
	return all, nil
}

var _ Observer = (*RouterObserver)(nil)
