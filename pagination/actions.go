package pagination

import (
	"github.com/amp-labs/amp-flux/dispatcher"
)

// Family is the dispatcher family of every pagination action.
const Family dispatcher.Family = "pagination"

// Action is the closed set of pagination actions. Only this package can add
// variants.
type Action interface {
	dispatcher.Action
	paginationAction()
}

// StartLoading requests the first page.
type StartLoading struct{}

// LoadNextPage requests the page after the items already loaded.
type LoadNextPage struct{}

// Reload fetches the first page again, replacing the data source.
type Reload struct{}

// Retry leaves the error state by loading the first page again. It only has
// an effect on models built WithRecovery.
type Retry struct{}

// LoadedThereIsMore delivers a page when more pages remain.
type LoadedThereIsMore struct {
	Page DataSource
}

// LoadedAll delivers the final page.
type LoadedAll struct {
	Page DataSource
}

// LoadingFailed delivers a fetch error.
type LoadingFailed struct {
	Err *Error
}

func (StartLoading) Name() string      { return "start_loading" }
func (LoadNextPage) Name() string      { return "load_next_page" }
func (Reload) Name() string            { return "reload" }
func (Retry) Name() string             { return "retry" }
func (LoadedThereIsMore) Name() string { return "loaded_there_is_more" }
func (LoadedAll) Name() string         { return "loaded" }
func (LoadingFailed) Name() string     { return "loading_failed" }

func (StartLoading) Family() dispatcher.Family      { return Family }
func (LoadNextPage) Family() dispatcher.Family      { return Family }
func (Reload) Family() dispatcher.Family            { return Family }
func (Retry) Family() dispatcher.Family             { return Family }
func (LoadedThereIsMore) Family() dispatcher.Family { return Family }
func (LoadedAll) Family() dispatcher.Family         { return Family }
func (LoadingFailed) Family() dispatcher.Family     { return Family }

func (StartLoading) paginationAction()      {}
func (LoadNextPage) paginationAction()      {}
func (Reload) paginationAction()            {}
func (Retry) paginationAction()             {}
func (LoadedThereIsMore) paginationAction() {}
func (LoadedAll) paginationAction()         {}
func (LoadingFailed) paginationAction()     {}
