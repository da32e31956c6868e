/*
Package host binds a layout to an application that wants the layout to own its
state.

A plain layout never stores state: the caller keeps it in the options and
routes SetState back through SetOptions. Use does that wiring once. It holds
the state in an internal store, re-syncs the layout whenever that store
changes and, optionally, persists snapshots through a ports.SnapshotStore.

Usage:

	b, err := host.Use(domain.Options[Row]{Data: rows},
		host.WithLayoutOptions(layout.WithFeatures(pagination)),
		host.WithPersistence[Row](store, "grid"),
	)
	if err != nil {
		return err
	}
	defer b.Close()

	b.SetState(domain.Update(nextPage))
	state := b.GetState()
*/
package host
