/*
Package domain contains the core data model of the layout engine.

It defines the values that flow between the layout instance, its features and
its host, and is kept free of I/O and scheduling concerns.

# Key Entities

  - State: the opaque UI state record, owned by the host.
  - Options: the resolved configuration snapshot, replaced wholesale on update.
  - Updater: a literal value or a transform of the previous value.
  - LifecycleHooks: observability callbacks fired by the layout and its queue.
*/
package domain
