package lang

import "sync"

var (
	defaultOnce  sync.Once
	defaultAsset Asset
	defaultNew   func() Asset
)

// SetFactory overrides how the process-wide singleton is constructed. Must
// be called, if at all, before the first Default() call — typically once
// from cmd/briefengine/main.go before the HTTP server starts accepting
// requests. Tests that need a fresh instance should construct their own
// implementation directly instead of going through Default.
func SetFactory(factory func() Asset) {
	defaultNew = factory
}

// Default returns the process-wide language-asset singleton, built once
// with sync.Once per spec §5 ("the language-asset singleton is loaded once
// per process and must be safe for concurrent read calls"). The returned
// Asset holds no mutable per-call state, so concurrent Sentences/NER calls
// from multiple in-flight /analyze requests are safe.
func Default() Asset {
	defaultOnce.Do(func() {
		if defaultNew == nil {
			panic("lang: Default() called before SetFactory; cmd/briefengine must call lang.SetFactory(pl.New) during startup")
		}
		defaultAsset = defaultNew()
	})
	return defaultAsset
}
