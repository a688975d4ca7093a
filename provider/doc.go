// Package provider implements a generic provider framework using Go generics
// for swappable backends.
//
// It provides a registry for managing multiple provider implementations with
// factory-based instantiation, availability checking, and runtime selection.
// The transcription and llm packages build their ordered primary/secondary
// backend lists on top of it.
//
// # Usage
//
//	reg := provider.NewRegistry[MyProvider]()
//	reg.RegisterFactory("groq", groqFactory)
//	mgr := provider.NewManager(reg, &provider.PrioritySelector[MyProvider]{
//	    Priority: []string{"groq", "openai"},
//	})
//	mgr.Initialize("groq", cfg)
//	p, _ := mgr.Get(ctx)
package provider
