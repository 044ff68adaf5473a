package store

// Middleware wraps dispatch. It receives the container API once and
// returns a wrapper for the next dispatch in the chain.
type Middleware func(api API) func(next Dispatch) Dispatch

// ThunkAction is an asynchronous or multi-step action. The thunk
// middleware runs it instead of passing it to the reducers.
type ThunkAction func(dispatch Dispatch, getState func() State) any

// Thunk returns the middleware that enables ThunkAction.
func Thunk() Middleware {
	return func(api API) func(next Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(action Action) any {
				if thunk, ok := action.(ThunkAction); ok {
					return thunk(api.Dispatch, api.GetState)
				}
				return next(action)
			}
		}
	}
}
