/*
Package layout is a headless state/options composition engine for UI-agnostic stateful components.

A host (a UI framework binding, a server-side renderer, a test) constructs a Layout from options, extends it with an ordered list of features, and routes state through either its own storage or a caller-supplied controller. The layout itself never stores state: it exposes a read projection (GetState) and a write sink (SetState) over the current options snapshot.

# Concept

Options are resolved once per update by merging feature defaults with caller input and are replaced as a whole, so readers always observe a complete snapshot. Features contribute default options, transform the initial state and attach named extensions to the instance. A deferred callback queue coalesces work into one flush per scheduling cycle.

# Key Features

  - Controlled or uncontrolled state: the host decides where state lives (see pkg/host and pkg/store).
  - Ordered feature composition: later features override earlier ones.
  - Pluggable merge strategy: a MergeOptions hook replaces the default shallow merge.
  - Injectable scheduling: run the callback queue on goroutines, a UI loop, or manually in tests.

# Usage

	type Row struct{ ID int }

	var state domain.State
	l := layout.New(domain.Options[Row]{
		Data:  []Row{{ID: 1}},
		State: domain.State{},
		OnStateChange: func(u domain.Updater[domain.State]) {
			state = u.Apply(state)
		},
	})

	l.SetOptions(domain.Update(func(o domain.Options[Row]) domain.Options[Row] {
		o.Data = []Row{{ID: 2}}
		return o
	}))

	l.Queue(func() {
		// runs once, after the current unit of work
	})

For a binding that owns state internally and keeps the options in sync, use pkg/host.
*/
package layout
