// Package agent provides move-choosing players and a global registry of
// agent factories. Agents register themselves in init() functions so the
// CLI, simulator and TUI can create them by name.
package agent

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/twenty48/internal/game"
	"github.com/vovakirdan/twenty48/internal/search"
)

// ErrUnknownAgent is returned by Create for an unregistered name.
var ErrUnknownAgent = errors.New("agent: unknown agent")

// Agent chooses a direction for a session's current position.
// Choose must not advance the session.
type Agent interface {
	// Name returns the registry name (e.g., "expectimax").
	Name() string

	// Choose returns the next direction. When no move is legal it
	// returns game.Up.
	Choose(sess *game.Session) game.Direction
}

// Options configures a new agent. Agents ignore fields they do not use.
type Options struct {
	// Seed drives agents that make random choices.
	Seed int64
	// Search configures the expectimax agent.
	Search search.Options
	// Predictor backs the policy agent; nil selects HeuristicPredictor.
	Predictor Predictor
}

// DefaultOptions returns options with the default search settings.
func DefaultOptions() Options {
	return Options{Search: search.DefaultOptions()}
}

// Info contains metadata about a registered agent.
type Info struct {
	Name        string
	Description string
}

// Factory creates a new agent.
type Factory func(opts Options) (Agent, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds an agent factory to the registry.
// Panics if an agent with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("agent: %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered agents, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for name := range factories {
		result = append(result, Info{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a new agent by name.
func Create(name string, opts Options) (Agent, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAgent, name)
	}

	a, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("agent: create %q: %w", name, err)
	}
	return a, nil
}

// Exists checks if an agent with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
