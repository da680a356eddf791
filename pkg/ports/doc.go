/*
Package ports defines the driven ports (interfaces) for the validation layer.

These interfaces decouple the engines from where Type Maps live, allowing
the same validator to run over files, Loam repositories, Redis or memory.

# Key Interfaces

  - TypeLoader: Retrieves type definitions by name (e.g., from Loam or Memory).
  - TypeStore: A TypeLoader that can also persist and remove definitions.
  - Watchable: Notifies about backend changes so Type Maps can be reloaded.
*/
package ports
