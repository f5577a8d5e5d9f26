package helpers

import "reflect"

// StrPanic panics with panicMessage if p is empty; otherwise returns p. Used for fail-fast validation of
// required constructor strings (peer base URL, node URL).
//
// Called from adapters.peerhttp.NewClient, service.NewPeerNode and service.NewPeerNodeSet.
func StrPanic(p string, panicMessage string) string {
	if p == "" {
		panic(panicMessage)
	}
	return p
}

// NilPanic panics with panicMessage if v is nil (nil interface, pointer, slice, map, chan or func);
// otherwise returns v unchanged.
//
// Called from service constructors (registry, peer nodes, response cache, persister) and adapters when
// validating required dependencies.
func NilPanic[T any](v T, panicMessage string) T {
	if isNil(v) {
		panic(panicMessage)
	}
	return v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
