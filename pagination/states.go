package pagination

import "github.com/amp-labs/amp-flux/statemachine"

// State is the closed set of pagination states. Only this package can add
// variants.
type State interface {
	statemachine.State
	paginationState()
}

// Initial is the state before anything was requested.
type Initial struct{}

// LoadingFirstPage waits for the first page.
type LoadingFirstPage struct{}

// Idle holds the items loaded so far; more pages remain.
type Idle struct {
	DataSource DataSource
}

// LoadingAdditionalPage keeps showing DataSource while the next page loads.
type LoadingAdditionalPage struct {
	DataSource DataSource
}

// Reloading keeps showing DataSource while the first page is fetched again.
type Reloading struct {
	DataSource DataSource
}

// Loaded holds every item; there is nothing more to fetch.
type Loaded struct {
	DataSource DataSource
}

// Failed holds the error that stopped loading.
type Failed struct {
	Err *Error
}

func (Initial) Name() string               { return "initial" }
func (LoadingFirstPage) Name() string      { return "loading_first_page" }
func (Idle) Name() string                  { return "idle" }
func (LoadingAdditionalPage) Name() string { return "loading_additional_page" }
func (Reloading) Name() string             { return "reloading" }
func (Loaded) Name() string                { return "loaded" }
func (Failed) Name() string                { return "error" }

func (Initial) paginationState()               {}
func (LoadingFirstPage) paginationState()      {}
func (Idle) paginationState()                  {}
func (LoadingAdditionalPage) paginationState() {}
func (Reloading) paginationState()             {}
func (Loaded) paginationState()                {}
func (Failed) paginationState()                {}

// Items returns the data source carried by state, or nil for states that
// carry none.
func Items(state State) DataSource {
	switch s := state.(type) {
	case Idle:
		return s.DataSource
	case LoadingAdditionalPage:
		return s.DataSource
	case Reloading:
		return s.DataSource
	case Loaded:
		return s.DataSource
	default:
		return nil
	}
}

// IsLoading reports whether state is waiting on a fetch.
func IsLoading(state State) bool {
	switch state.(type) {
	case LoadingFirstPage, LoadingAdditionalPage, Reloading:
		return true
	default:
		return false
	}
}
