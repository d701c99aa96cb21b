/*
Package ports defines the driven ports (interfaces) of the form engine.

These interfaces decouple the request flow from storage and transport, so the
same engine can run behind HTTP, an MCP server or a terminal.

# Key Interfaces

  - DefinitionLoader: Loads form definitions (e.g., from a directory).
  - StateStore: Persists the answers of each form session.
  - DistributedLocker: Serialises concurrent writes to one session across replicas.
  - FormEngine: The page flow consumed by transport adapters.
*/
package ports
