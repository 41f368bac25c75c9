// Package vocab is the in-process recognition vocabulary host.
package vocab

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rbright/murmur/internal/config"
)

// Registry stores phrase lists by tag. It satisfies grammar.Host.
type Registry struct {
	mu   sync.RWMutex
	tags map[string][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tags: make(map[string][]string)}
}

// Register stores phrases under tag. A tag can only be registered once until
// it is unregistered.
func (r *Registry) Register(tag string, phrases []string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("vocabulary tag must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tags[tag]; exists {
		return fmt.Errorf("vocabulary tag %q already registered", tag)
	}
	r.tags[tag] = append([]string(nil), phrases...)
	return nil
}

// Unregister removes tag. Unknown tags are an error.
func (r *Registry) Unregister(tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tags[tag]; !exists {
		return fmt.Errorf("vocabulary tag %q is not registered", tag)
	}
	delete(r.tags, tag)
	return nil
}

// Tags returns the registered tags, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.tags))
	for tag := range r.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Phrases returns the phrases registered under tag.
func (r *Registry) Phrases(tag string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	phrases, ok := r.tags[tag]
	if !ok {
		return nil, false
	}
	return append([]string(nil), phrases...), true
}

// Len reports how many tags are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tags)
}

// All returns every distinct registered phrase, sorted.
func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, phrases := range r.tags {
		for _, phrase := range phrases {
			if seen[phrase] {
				continue
			}
			seen[phrase] = true
			out = append(out, phrase)
		}
	}
	sort.Strings(out)
	return out
}

// SpeechPhrases merges the registered grammar phrases with the configured
// vocab sets into boosted phrases for a remote speech engine.
func SpeechPhrases(r *Registry, cfg config.Config) ([]config.SpeechPhrase, []config.Warning, error) {
	grammarSet := config.VocabSet{Name: "grammar", Boost: cfg.Grammar.Boost, Phrases: r.All()}
	return config.BuildSpeechPhrases(cfg, grammarSet)
}
