package rpc

type (
	// EndpointFactory customizes the endpoints of every service of a type.
	// Each hook receives the endpoint built by the service and returns the
	// value handed to the caller, usually a struct embedding it. Returning
	// nil fails the creation.
	EndpointFactory struct {
		Requester func(Requester) Requester
		Replier   func(Replier) Replier
	}
)

func (f EndpointFactory) requester(r Requester) Requester {
	if f.Requester == nil {
		return r
	}
	return f.Requester(r)
}

func (f EndpointFactory) replier(r Replier) Replier {
	if f.Replier == nil {
		return r
	}
	return f.Replier(r)
}
