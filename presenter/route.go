// Package presenter holds the screen state of the chat client, independent
// of how it is rendered.
package presenter

import (
	"pairchat/session"
)

type Route int

const (
	RouteSplash Route = iota
	RouteSignIn
	RouteHome
)

func (r Route) String() string {
	switch r {
	case RouteSplash:
		return "splash"
	case RouteSignIn:
		return "signin"
	case RouteHome:
		return "home"
	default:
		return "unknown"
	}
}

// RouteFor gates the screens on the session: a splash while loading, the
// directory once authenticated, the sign-in screen otherwise.
func RouteFor(state session.State) Route {
	switch {
	case state.Loading():
		return RouteSplash
	case state.IsAuthenticated():
		return RouteHome
	default:
		return RouteSignIn
	}
}
