package loader

import "sync/atomic"

// cancelToken is a single level-triggered cancel signal shared between
// a caller (e.g. a UI thread) and the worker executing the pipeline.
type cancelToken struct {
	flag atomic.Bool
}

func newCancelToken() *cancelToken {
	return &cancelToken{}
}

func (c *cancelToken) set() {
	c.flag.Store(true)
}

func (c *cancelToken) isSet() bool {
	return c.flag.Load()
}
