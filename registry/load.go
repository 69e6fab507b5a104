package registry

import (
	"sync"

	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/key"
	"github.com/pagevault/pagevault/where"
	"github.com/spf13/viper"
)

var (
	builtins   []handler.Handler
	builtinsMu sync.Mutex
)

// RegisterBuiltin adds a compiled-in handler to every registry built by Load.
func RegisterBuiltin(h handler.Handler) {
	builtinsMu.Lock()
	defer builtinsMu.Unlock()
	builtins = append(builtins, h)
}

// Load builds the application registry: compiled-in handlers first, then the
// units discovered in the handlers directory, minus the disabled ones.
func Load() (*Registry, []*handler.LoadError) {
	r := New()

	builtinsMu.Lock()
	r.Register(builtins...)
	builtinsMu.Unlock()

	failures := r.Discover(where.Handlers())
	r.Disable(viper.GetStringSlice(key.HandlersDisabled)...)
	return r, failures
}
