package store

// Reducer computes the next value of one state slice.
type Reducer func(state any, action Action) any

// RootReducer computes the next combined state.
type RootReducer func(state State, action Action) State

// CombineReducers builds a root reducer that hands each key's slice to
// its reducer. Keys without a reducer (for example persisted slices of
// features that are not registered) are carried over untouched.
func CombineReducers(reducers map[string]Reducer) RootReducer {
	own := make(map[string]Reducer, len(reducers))
	for k, r := range reducers {
		if r != nil {
			own[k] = r
		}
	}
	return func(state State, action Action) State {
		next := make(State, len(own)+len(state))
		for k, v := range state {
			next[k] = v
		}
		for k, r := range own {
			next[k] = r(state[k], action)
		}
		return next
	}
}
