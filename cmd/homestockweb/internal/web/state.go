package web

import (
	"context"
	"net/http"
	"sync"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
)

type stateKey struct{}

// requestState is the per-request view of the browser's session: a client
// over the request's cookie store, its guard, and notices raised while
// handling the request.
type requestState struct {
	client *sdk.Client
	guard  *sdk.Guard
	codec  *cookieCodec

	mu            sync.Mutex
	w             http.ResponseWriter
	r             *http.Request
	flashes       []sdk.Notice
	flashesLoaded bool
}

func withState(ctx context.Context, st *requestState) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

func stateFrom(r *http.Request) *requestState {
	st, _ := r.Context().Value(stateKey{}).(*requestState)
	return st
}

// Notify queues n as a flash message. The flash cookie is rewritten at once
// so a redirect issued afterwards carries it along with any flashes the
// request brought in.
func (st *requestState) Notify(n sdk.Notice) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.loadFlashesLocked()
	st.flashes = append(st.flashes, n)
	if err := st.codec.set(st.w, flashCookieName, st.flashes, flashMaxAge); err != nil {
		st.flashes = st.flashes[:len(st.flashes)-1]
	}
}

// consumeFlashes returns every pending flash and clears the flash cookie.
func (st *requestState) consumeFlashes() []sdk.Notice {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.loadFlashesLocked()

	out := st.flashes
	st.flashes = nil
	if len(out) > 0 {
		st.codec.clear(st.w, flashCookieName)
	}
	return out
}

func (st *requestState) loadFlashesLocked() {
	if st.flashesLoaded {
		return
	}
	st.flashesLoaded = true
	var incoming []sdk.Notice
	if ok, err := st.codec.get(st.r, flashCookieName, &incoming); err == nil && ok {
		st.flashes = incoming
	}
}
