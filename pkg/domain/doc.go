/*
Package domain contains the core domain models for the Formwork engine.

It defines the declarative form definition (pages, sections, conditions, lists,
outputs), the answer State collected for a session and the sentinel errors shared
by every layer. This package is kept pure and free of I/O and persistence,
following Hexagonal Architecture principles.

# Key Entities

  - FormDefinition: The parsed, immutable description of a multi-page form.
  - PageDef: One node of the form graph with its components and next edges.
  - Section: A named sub-scope of the State (answers live under State[section]).
  - State: The answers collected so far, merged through partial updates only.
  - DefinitionError: Every problem found while loading a definition, at once.
*/
package domain
